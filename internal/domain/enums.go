package domain

// ProductStatus controls storefront visibility of diamonds and jewellery.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) String() string { return string(s) }

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

// ContactStatus tracks the handling state of a contact-form submission.
// Submissions start as pending and are marked replied by an admin; they are
// never deleted by the application.
type ContactStatus string

const (
	ContactStatusPending ContactStatus = "pending"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) String() string { return string(s) }

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusPending, ContactStatusReplied:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
