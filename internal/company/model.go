package company

// Company is the employer behind one or more job postings. Every field other
// than Name is optional in the admin backend.
type Company struct {
	Name          string
	LogoURL       string
	Sector        string
	Website       string
	EmployeeCount string
	FoundedYear   int
	Headquarters  string
	Culture       string
}
