package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBirthDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1990-05-01", "1990-05-01"},
		{"1990-05-01T00:00:00Z", "1990-05-01"},
		{"1990-04-30T22:00:00.000Z", "1990-04-30"},
		{" 1990-05-01 ", "1990-05-01"},
	}
	for _, tt := range tests {
		got, err := NormalizeBirthDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := NormalizeBirthDate("1 May 1990")
	assert.Error(t, err)
}

func TestDisplayBirthDate(t *testing.T) {
	got, err := DisplayBirthDate("1990-05-01")
	require.NoError(t, err)
	assert.Equal(t, "01/05/1990", got)
}

func TestClientInput_Normalize(t *testing.T) {
	in := validClientInput()
	in.Name = "  Anna "
	in.BirthDate = "1990-05-01T00:00:00Z"
	in.Normalize()

	assert.Equal(t, "Anna", in.Name)
	assert.Equal(t, "1990-05-01", in.BirthDate)
}

func TestClientPatch_IsEmpty(t *testing.T) {
	assert.True(t, ClientPatch{}.IsEmpty())
	city := "Girona"
	assert.False(t, ClientPatch{City: &city}.IsEmpty())
}

func TestPendingRecord_SuggestedNames(t *testing.T) {
	tests := []struct {
		clientName  string
		wantName    string
		wantSurname string
	}{
		{"Joan Vila", "Joan", "Vila"},
		{"  Maria  del Mar   Soler ", "Maria", "del Mar Soler"},
		{"Pau", "Pau", ""},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		name, surname := PendingRecord{ClientName: tt.clientName}.SuggestedNames()
		assert.Equal(t, tt.wantName, name)
		assert.Equal(t, tt.wantSurname, surname)
	}
}

func TestParseAppointmentDate(t *testing.T) {
	want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-06-01T10:00:00Z", "2024-06-01T12:00:00+02:00", "2024-06-01T10:00:00.000Z", "2024-06-01T10:00"} {
		got, err := ParseAppointmentDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseAppointmentDate("next tuesday")
	assert.Error(t, err)
}

func TestPendingRecord_Draft(t *testing.T) {
	id := uuid.New()
	draft := PendingRecord{ID: id, ClientName: "Joan Vila Serra"}.Draft()
	assert.Equal(t, id, draft.PendingRecordID)
	assert.Equal(t, "Joan", draft.Name)
	assert.Equal(t, "Vila Serra", draft.Surname)
}
