package models

import "testing"

func TestCanTransitionStatus(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{TASK_STATUS_PENDIENTE, TASK_STATUS_EN_PROGRESO, true},
		{TASK_STATUS_PENDIENTE, TASK_STATUS_CANCELADA, true},
		{TASK_STATUS_EN_PROGRESO, TASK_STATUS_PENDIENTE, true},
		{TASK_STATUS_ENVIADA, TASK_STATUS_FINALIZADO, true},
		{TASK_STATUS_ENVIADA, TASK_STATUS_PENDIENTE, false},
		{TASK_STATUS_ENVIADA, TASK_STATUS_EN_PROGRESO, false},
		{TASK_STATUS_FINALIZADO, TASK_STATUS_PENDIENTE, true},
		{TASK_STATUS_FINALIZADO, TASK_STATUS_ENVIADA, false},
		{TASK_STATUS_CANCELADA, TASK_STATUS_PENDIENTE, true},
		{TASK_STATUS_CANCELADA, TASK_STATUS_FINALIZADO, false},
		// mismo estado siempre permitido
		{TASK_STATUS_ENVIADA, TASK_STATUS_ENVIADA, true},
	}

	for _, tc := range cases {
		if got := CanTransitionStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionStatus(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsValidTaskStatus(t *testing.T) {
	for _, status := range []string{TASK_STATUS_PENDIENTE, TASK_STATUS_EN_PROGRESO,
		TASK_STATUS_FINALIZADO, TASK_STATUS_ENVIADA, TASK_STATUS_CANCELADA} {
		if !IsValidTaskStatus(status) {
			t.Errorf("IsValidTaskStatus(%q) = false", status)
		}
	}
	if IsValidTaskStatus("terminada") {
		t.Error("IsValidTaskStatus accepted an unknown status")
	}
}

func TestTagsList(t *testing.T) {
	task := Task{Tags: []TaskTag{
		{Name: "casa"},
		{Name: "  "},
		{Name: "urgente"},
	}}
	got := task.TagsList()
	if len(got) != 2 || got[0] != "casa" || got[1] != "urgente" {
		t.Fatalf("TagsList() = %v", got)
	}
}
