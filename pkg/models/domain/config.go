package domain

import "fmt"

type ProfileType string

const (
	ProfileTypeSnowflake  ProfileType = "snowflake"
	ProfileTypeDatabricks ProfileType = "databricks"
	ProfileTypeDuckDB     ProfileType = "duckdb"
)

// WarehouseProfile is one named connection target from the warehouse
// registry file. Only the keys relevant to the profile's type are set.
type WarehouseProfile struct {
	Name      string
	Type      ProfileType
	Account   string
	User      string
	Password  string
	Host      string
	Token     string
	HTTPPath  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
	// Path is the database file location for local duckdb profiles.
	Path string
}

func (p WarehouseProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}
