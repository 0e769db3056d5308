package tools

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// CheckPassword devuelve el nombre del campo problemático o "" si la
// contraseña es aceptable.
func CheckPassword(password string) string {
	if len(password) < 8 {
		return "password"
	}
	return ""
}

// ValidateChannelValue valida y normaliza el valor de un canal según su tipo.
//
// - whatsapp: formato internacional, '+' seguido de 10 a 15 dígitos
//   (se toleran espacios y guiones)
// - email: debe tener '@' y un '.' después, sin espacios; se guarda en minúsculas
// - telegram: '@' seguido de al menos 5 caracteres alfanuméricos o '_'
func ValidateChannelValue(channelType, value string) (string, error) {
	value = strings.TrimSpace(value)

	switch channelType {
	case "whatsapp":
		if !strings.HasPrefix(value, "+") {
			return "", fmt.Errorf("el número de WhatsApp debe empezar con + (formato internacional)")
		}
		digits := strings.NewReplacer(" ", "", "-", "").Replace(value[1:])
		for _, r := range digits {
			if !unicode.IsDigit(r) {
				return "", fmt.Errorf("el número de WhatsApp debe contener solo dígitos después del +")
			}
		}
		if len(digits) < 10 || len(digits) > 15 {
			return "", fmt.Errorf("el número de WhatsApp debe tener entre 10 y 15 dígitos")
		}
		return value, nil

	case "email":
		value = strings.ToLower(value)
		if strings.Contains(value, " ") {
			return "", fmt.Errorf("el email no puede contener espacios")
		}
		at := strings.Index(value, "@")
		if at <= 0 || !strings.Contains(value[at+1:], ".") {
			return "", fmt.Errorf("formato de email inválido")
		}
		return value, nil

	case "telegram":
		if !strings.HasPrefix(value, "@") {
			return "", fmt.Errorf("el username de Telegram debe empezar con @")
		}
		username := value[1:]
		if len(username) < 5 {
			return "", fmt.Errorf("el username de Telegram debe tener al menos 5 caracteres después de @")
		}
		for _, r := range username {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return "", fmt.Errorf("el username de Telegram solo puede contener letras, números y guiones bajos")
			}
		}
		return value, nil
	}

	return "", fmt.Errorf("tipo de canal desconocido: %s", channelType)
}
