package models

// Customer identifie l'acheteur. Les comptes sont gérés par le service d'identité ;
// l'e-mail vient du jeton.
type Customer struct {
	ID    string
	Email string
	Name  string
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
