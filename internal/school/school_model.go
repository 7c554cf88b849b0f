package school

import "gorm.io/gorm"

type SchoolType string

const (
	SchoolTypeHighSchool SchoolType = "HIGH_SCHOOL"
	SchoolTypeCollege    SchoolType = "COLLEGE"
	SchoolTypeUniversity SchoolType = "UNIVERSITY"
)

// School is an institution that fields esports programs. Coaches belong to
// exactly one school; tryouts and combines are hosted by a school.
type School struct {
	gorm.Model
	Name     string     `gorm:"uniqueIndex;not null" json:"name"`
	Type     SchoolType `gorm:"not null;index" json:"type"`
	State    string     `gorm:"index" json:"state"`
	Region   string     `json:"region"`
	Location string     `json:"location"`
	Bio      string     `json:"bio"`
	Website  string     `json:"website"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Logo     string     `json:"logo"`
	Banner   string     `json:"banner"`
}
