package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

// Registry reads warehouse connection profiles from an ini file, one
// section per profile:
//
//	[blue_sage]
//	type      = snowflake
//	account   = xy12345
//	user      = analytics
//	password  = ...
//	database  = FLORAOS
//	schema    = BLUE_SAGE
//	warehouse = REPORTING_WH
//
//	[local]
//	type = duckdb
//	path = retail-insights.db
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.WarehouseProfile, error)
	GetProfile(ctx context.Context, name string) (domain.WarehouseProfile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse registry %q: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]domain.WarehouseProfile, error) {
	var profiles []domain.WarehouseProfile
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		p, err := profileFromSection(section)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (domain.WarehouseProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return domain.WarehouseProfile{}, fmt.Errorf("warehouse profile %q not found", name)
	}
	return profileFromSection(section)
}

func profileFromSection(section *ini.Section) (domain.WarehouseProfile, error) {
	profileType := domain.ProfileType(section.Key("type").String())
	switch profileType {
	case domain.ProfileTypeSnowflake, domain.ProfileTypeDatabricks, domain.ProfileTypeDuckDB:
	default:
		return domain.WarehouseProfile{}, fmt.Errorf(
			"warehouse profile %q has unsupported type %q", section.Name(), profileType)
	}

	return domain.WarehouseProfile{
		Name:      section.Name(),
		Type:      profileType,
		Account:   section.Key("account").String(),
		User:      section.Key("user").String(),
		Password:  section.Key("password").String(),
		Host:      section.Key("host").String(),
		Token:     section.Key("token").String(),
		HTTPPath:  section.Key("http_path").String(),
		Database:  section.Key("database").String(),
		Schema:    section.Key("schema").String(),
		Warehouse: section.Key("warehouse").String(),
		Role:      section.Key("role").String(),
		Path:      section.Key("path").String(),
	}, nil
}
