package domain

import "time"

// Department represents an organizational unit complaints are routed to.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultDepartments is the fixed roster seeded at first migration. Users and
// complaints reference departments by name against this registry.
var DefaultDepartments = []string{
	"Education",
	"Residential Facilities",
	"Infrastructure",
	"Electricity",
	"Water",
	"IT Systems",
	"Transport",
	"Administration",
	"Staff Behaviour",
	"Security",
	"Health",
	"Finance",
	"General Complaint",
}
