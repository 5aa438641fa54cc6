package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDirectoryDocument(t *testing.T) {
	doc := `[
		{"patient_id": 7, "patient_name": "Ann Lee", "age": 40, "photo_url": "https://randomuser.me/api/portraits/women/1.jpg",
		 "contact": [{"address": "12 Elm St, Springfield, Ohio", "number": "555-0100", "email": "ann@example.com"}],
		 "medical_issue": "fever"},
		{"patient_id": null, "patient_name": "", "age": null, "photo_url": null, "contact": null, "medical_issue": null}
	]`

	var records []Patient
	require.NoError(t, json.Unmarshal([]byte(doc), &records))
	require.Len(t, records, 2)

	ann := records[0]
	assert.Equal(t, 7, ann.ID)
	assert.Equal(t, 40, ann.AgeOrZero())
	assert.Equal(t, "Ohio", ann.Location())
	assert.Equal(t, "ann@example.com", ann.Email())
	assert.True(t, ann.HasPhoto())

	empty := records[1]
	assert.Nil(t, empty.Age)
	assert.Equal(t, 0, empty.AgeOrZero())
	assert.Equal(t, "", empty.Location())
	assert.Equal(t, "", empty.Email())
	assert.False(t, empty.HasPhoto())
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		contacts []Contact
		want     string
	}{
		{name: "nil contacts", contacts: nil, want: ""},
		{name: "empty address", contacts: []Contact{{Address: ""}}, want: ""},
		{name: "no comma keeps whole address", contacts: []Contact{{Address: "  Texas "}}, want: "Texas"},
		{name: "final comma wins", contacts: []Contact{{Address: "1 Main, Austin,  Texas"}}, want: "Texas"},
		{name: "trailing comma yields empty", contacts: []Contact{{Address: "1 Main, Austin,"}}, want: ""},
		{name: "only first contact consulted", contacts: []Contact{{Address: "a, Utah"}, {Address: "b, Ohio"}}, want: "Utah"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Patient{Contacts: tt.contacts}.Location())
		})
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "42", Patient{ID: 42}.DisplayID(20, 3))
	assert.Equal(t, "ID-24", Patient{}.DisplayID(20, 3))
	assert.Equal(t, "ID-1", Patient{}.DisplayID(0, 0))
}

func TestHasPhotoRejectsNullSentinel(t *testing.T) {
	assert.False(t, Patient{PhotoURL: "null"}.HasPhoto())
	assert.False(t, Patient{PhotoURL: "NULL"}.HasPhoto())
	assert.True(t, Patient{PhotoURL: "https://randomuser.me/x.jpg"}.HasPhoto())
}

func TestBackfillIssues(t *testing.T) {
	records := []Patient{
		{Name: "a", MedicalIssue: "cough"},
		{Name: "b"},
		{Name: "c"},
	}
	picks := []int{1, 9}
	var asked []int
	pick := func(n int) int {
		asked = append(asked, n)
		v := picks[0]
		picks = picks[1:]
		return v
	}

	out := BackfillIssues(records, pick)

	assert.Equal(t, []int{10, 10}, asked, "one independent pick per missing issue")
	assert.Equal(t, "cough", out[0].MedicalIssue)
	assert.Equal(t, "fever", out[1].MedicalIssue)
	assert.Equal(t, "anxiety", out[2].MedicalIssue)
	assert.Equal(t, "", records[1].MedicalIssue, "input slice is not mutated")
}

func TestBackfillIssuesDefaultRandom(t *testing.T) {
	out := BackfillIssues(make([]Patient, 50), nil)
	for _, r := range out {
		assert.Contains(t, Issues[:], r.MedicalIssue)
	}
}
