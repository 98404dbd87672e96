package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string, the way the web client
// sends form values.
type Number struct {
	raw   string
	valid bool
	set   bool
}

func NewNumber(v string) Number {
	n := Number{raw: strings.TrimSpace(v), set: true}
	_, err := strconv.ParseFloat(n.raw, 64)
	n.valid = err == nil
	return n
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	*n = NewNumber(s)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// Present reports whether the field was sent with a non-empty value.
func (n Number) Present() bool { return n.set && n.raw != "" }

func (n Number) Float64() (float64, bool) {
	if !n.valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int64 succeeds only for whole numbers.
func (n Number) Int64() (int64, bool) {
	f, ok := n.Float64()
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

type CompetenceInput struct {
	CompetenceName    string `json:"competenceName"`
	YearsOfExperience Number `json:"yearsOfExperience"`
}

type AvailabilityInput struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// UserData is the applicant the client claims to submit for. It must agree
// with the bearer token.
type UserData struct {
	PersonID Number `json:"person_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Number `json:"role"`
}

type SubmitApplicationInput struct {
	Competences  []CompetenceInput   `json:"competences"`
	Availability []AvailabilityInput `json:"availability"`
	UserData     *UserData           `json:"userData"`
}

type SetStatusInput struct {
	Status       string `json:"status"`
	PersonID     Number `json:"person_id"`
	CompetenceID Number `json:"competence_id"`
}

type CompetenceResponse struct {
	CompetenceID int64  `json:"competence_id"`
	Name         string `json:"name"`
}

// ApplicationSummary is one row of the recruiter overview, assembled per
// person on read.
type ApplicationSummary struct {
	PersonID                  int64   `json:"person_id"`
	Name                      string  `json:"name"`
	Surname                   string  `json:"surname"`
	CompetencesWithExperience *string `json:"competences_with_experience"`
	AvailabilityPeriods       *string `json:"availability_periods"`
	Status                    *string `json:"status"`
}
