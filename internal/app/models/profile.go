package models

import "time"

// StudentProfile defines the student profile model based on the 'student_profiles' table
type StudentProfile struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	University     *string   `json:"university,omitempty" db:"university"`
	Major          *string   `json:"major,omitempty" db:"major"`
	GraduationYear *int      `json:"graduationYear,omitempty" db:"graduation_year"`
	Bio            *string   `json:"bio,omitempty" db:"bio"`
	Skills         []string  `json:"skills" db:"skills"`
	ResumeURL      *string   `json:"resumeUrl,omitempty" db:"resume_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// StartupProfile defines the startup profile model based on the 'startup_profiles' table
type StartupProfile struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"userId" db:"user_id"`
	CompanyName      string    `json:"companyName" db:"company_name"`
	Website          *string   `json:"website,omitempty" db:"website"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Logo             *string   `json:"logo,omitempty" db:"logo"`
	IsDomainVerified bool      `json:"isDomainVerified" db:"is_domain_verified"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
