package tools

import "testing"

func TestValidateChannelValueWhatsapp(t *testing.T) {
	if _, err := ValidateChannelValue("whatsapp", "5215512345678"); err == nil {
		t.Error("accepted number without leading +")
	}
	if _, err := ValidateChannelValue("whatsapp", "+521"); err == nil {
		t.Error("accepted number with too few digits")
	}
	if _, err := ValidateChannelValue("whatsapp", "+52155abc45678"); err == nil {
		t.Error("accepted number with letters")
	}
	got, err := ValidateChannelValue("whatsapp", "+52 1551-234-5678")
	if err != nil {
		t.Fatalf("rejected valid number: %v", err)
	}
	if got != "+52 1551-234-5678" {
		t.Fatalf("normalized = %q", got)
	}
}

func TestValidateChannelValueEmail(t *testing.T) {
	got, err := ValidateChannelValue("email", "Alguien@Example.COM")
	if err != nil {
		t.Fatalf("rejected valid email: %v", err)
	}
	if got != "alguien@example.com" {
		t.Fatalf("normalized = %q", got)
	}

	for _, bad := range []string{"sin-arroba.com", "con espacio@example.com", "falta@punto"} {
		if _, err := ValidateChannelValue("email", bad); err == nil {
			t.Errorf("accepted %q", bad)
		}
	}
}

func TestValidateChannelValueTelegram(t *testing.T) {
	if _, err := ValidateChannelValue("telegram", "sinarroba"); err == nil {
		t.Error("accepted username without @")
	}
	if _, err := ValidateChannelValue("telegram", "@abc"); err == nil {
		t.Error("accepted short username")
	}
	if _, err := ValidateChannelValue("telegram", "@con-guion"); err == nil {
		t.Error("accepted dash in username")
	}
	if _, err := ValidateChannelValue("telegram", "@usuario_99"); err != nil {
		t.Errorf("rejected valid username: %v", err)
	}
}

func TestValidateChannelValueUnknownType(t *testing.T) {
	if _, err := ValidateChannelValue("fax", "+5215512345678"); err == nil {
		t.Error("accepted unknown channel type")
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("persona@example.com") {
		t.Error("rejected valid email")
	}
	if ValidateEmail("no-es-un-email") {
		t.Error("accepted invalid email")
	}
}

func TestCheckPassword(t *testing.T) {
	if got := CheckPassword("corta"); got != "password" {
		t.Errorf("CheckPassword(short) = %q", got)
	}
	if got := CheckPassword("suficiente"); got != "" {
		t.Errorf("CheckPassword(ok) = %q", got)
	}
}
