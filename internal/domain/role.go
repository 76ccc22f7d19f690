package domain

// Roles carried in the identity context. Role checks happen once at the
// route-group boundary, not inline per operation.
const (
	RoleUser    = "user"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)
