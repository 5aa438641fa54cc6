package query

import "patientdir/internal/patient/models"

func person(name string, age int) models.Patient {
	return models.Patient{Name: name, Age: &age}
}

func withIssue(p models.Patient, issue string) models.Patient {
	p.MedicalIssue = issue
	return p
}

func withAddress(p models.Patient, address string) models.Patient {
	p.Contacts = []models.Contact{{Address: address}}
	return p
}

func names(records []models.Patient) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
