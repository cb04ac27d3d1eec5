package warehouse

import (
	"database/sql"
	"fmt"

	_ "github.com/databricks/databricks-sql-go"
	sf "github.com/snowflakedb/gosnowflake"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

// Open turns a warehouse profile into a live database handle. The returned
// *sql.DB owns pooling and reconnection; callers wrap it in an Executor.
func Open(profile domain.WarehouseProfile) (*sql.DB, error) {
	switch profile.Type {
	case domain.ProfileTypeSnowflake:
		return openSnowflake(profile)
	case domain.ProfileTypeDatabricks:
		return openDatabricks(profile)
	case domain.ProfileTypeDuckDB:
		return NewLocalDB(Settings{DbPath: profile.Path})
	default:
		return nil, fmt.Errorf("unsupported warehouse type %q for profile %q", profile.Type, profile.Name)
	}
}

func openSnowflake(profile domain.WarehouseProfile) (*sql.DB, error) {
	cfg := &sf.Config{
		Account:   profile.Account,
		User:      profile.User,
		Password:  profile.Password,
		Database:  profile.Database,
		Schema:    profile.Schema,
		Warehouse: profile.Warehouse,
		Role:      profile.Role,
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake DSN for profile %q: %w", profile.Name, err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}
	return db, nil
}

func openDatabricks(profile domain.WarehouseProfile) (*sql.DB, error) {
	dsn := fmt.Sprintf("token:%s@%s:443%s", profile.Token, profile.Host, profile.HTTPPath)

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open databricks connection: %w", err)
	}
	return db, nil
}
