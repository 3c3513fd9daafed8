package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
)

var configurationView = view{
	singular: "configuration",
	plural:   "configurations",
	fields: []string{
		"organization_name", "configuration_type_name", "configuration_status_name",
		"hostname", "primary_ip", "serial_number", "operating_system_notes", "archived",
	},
}

// ListConfigurationsInput holds the arguments of itglue_list_configurations.
type ListConfigurationsInput struct {
	OrganizationID        string `json:"organization_id,omitempty" jsonschema:"only list configurations of this organization"`
	Name                  string `json:"name,omitempty" jsonschema:"filter by configuration name"`
	ConfigurationTypeID   string `json:"configuration_type_id,omitempty" jsonschema:"filter by configuration type ID"`
	ConfigurationStatusID string `json:"configuration_status_id,omitempty" jsonschema:"filter by configuration status ID"`
	SerialNumber          string `json:"serial_number,omitempty" jsonschema:"filter by serial number"`
	RMMID                 string `json:"rmm_id,omitempty" jsonschema:"filter by RMM integration ID"`
	PSAID                 string `json:"psa_id,omitempty" jsonschema:"filter by PSA integration ID"`
	Archived              *bool  `json:"archived,omitempty" jsonschema:"filter by archived state"`
	PageNumber            int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize              int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort                  string `json:"sort,omitempty" jsonschema:"sort field such as name or -updated_at"`
	ResponseFormat        string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetConfigurationInput identifies the configuration to fetch.
type GetConfigurationInput struct {
	ID             string `json:"id" jsonschema:"configuration ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// CreateConfigurationInput holds the attributes of a new configuration.
type CreateConfigurationInput struct {
	OrganizationID        string  `json:"organization_id" jsonschema:"organization that owns the configuration"`
	Name                  string  `json:"name" jsonschema:"configuration name"`
	ConfigurationTypeID   string  `json:"configuration_type_id" jsonschema:"configuration type ID"`
	ConfigurationStatusID *string `json:"configuration_status_id,omitempty" jsonschema:"configuration status ID"`
	Hostname              *string `json:"hostname,omitempty" jsonschema:"host name"`
	PrimaryIP             *string `json:"primary_ip,omitempty" jsonschema:"primary IP address"`
	MACAddress            *string `json:"mac_address,omitempty" jsonschema:"MAC address"`
	SerialNumber          *string `json:"serial_number,omitempty" jsonschema:"serial number"`
	AssetTag              *string `json:"asset_tag,omitempty" jsonschema:"asset tag"`
	LocationID            *string `json:"location_id,omitempty" jsonschema:"location ID"`
	Notes                 *string `json:"notes,omitempty" jsonschema:"notes (HTML)"`
	ResponseFormat        string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// UpdateConfigurationInput holds the configuration attributes to change. Omitted fields are left as they are.
type UpdateConfigurationInput struct {
	ID                    string  `json:"id" jsonschema:"configuration ID"`
	Name                  *string `json:"name,omitempty" jsonschema:"configuration name"`
	ConfigurationTypeID   *string `json:"configuration_type_id,omitempty" jsonschema:"configuration type ID"`
	ConfigurationStatusID *string `json:"configuration_status_id,omitempty" jsonschema:"configuration status ID"`
	Hostname              *string `json:"hostname,omitempty" jsonschema:"host name"`
	PrimaryIP             *string `json:"primary_ip,omitempty" jsonschema:"primary IP address"`
	MACAddress            *string `json:"mac_address,omitempty" jsonschema:"MAC address"`
	SerialNumber          *string `json:"serial_number,omitempty" jsonschema:"serial number"`
	AssetTag              *string `json:"asset_tag,omitempty" jsonschema:"asset tag"`
	LocationID            *string `json:"location_id,omitempty" jsonschema:"location ID"`
	Notes                 *string `json:"notes,omitempty" jsonschema:"notes (HTML)"`
	Archived              *bool   `json:"archived,omitempty" jsonschema:"archive or restore the configuration"`
	ResponseFormat        string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// DeleteInput lists the ids removed by a bulk delete tool.
type DeleteInput struct {
	IDs []string `json:"ids" jsonschema:"IDs to delete in one request"`
}

func (ts *Toolset) registerConfigurations(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_configurations",
		Description: "List IT Glue configurations (devices, servers, network gear), optionally within one organization. Filter by name, type, status, serial number, RMM or PSA ID and archived state.",
		Annotations: readOnly("List Configurations"),
	}, "Filter by organization_id or configuration_type_id, or request a smaller page_size.", ts.listConfigurations)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_configuration",
		Description: "Get one IT Glue configuration by ID with all of its attributes.",
		Annotations: readOnly("Get Configuration"),
	}, "", ts.getConfiguration)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_create_configuration",
		Description: "Create an IT Glue configuration in an organization. Requires organization_id, name and configuration_type_id.",
		Annotations: writes("Create Configuration", false, false),
	}, "", ts.createConfiguration)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_update_configuration",
		Description: "Update an IT Glue configuration. Only the fields provided are changed.",
		Annotations: writes("Update Configuration", false, true),
	}, "", ts.updateConfiguration)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_delete_configurations",
		Description: "Permanently delete one or more IT Glue configurations by ID in a single bulk request.",
		Annotations: writes("Delete Configurations", true, true),
	}, "", ts.deleteConfigurations)
}

func (ts *Toolset) listConfigurations(ctx context.Context, in ListConfigurationsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name":                    optional(in.Name),
		"configuration_type_id":   optional(in.ConfigurationTypeID),
		"configuration_status_id": optional(in.ConfigurationStatusID),
		"serial_number":           optional(in.SerialNumber),
		"rmm_id":                  optional(in.RMMID),
		"psa_id":                  optional(in.PSAID),
		"archived":                in.Archived,
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListConfigurations(ctx, opts, in.OrganizationID)
	return listing(configurationView, format, page, err)
}

func (ts *Toolset) getConfiguration(ctx context.Context, in GetConfigurationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	rec, err := ts.svc.GetConfiguration(ctx, in.ID)
	if err != nil {
		return "", err
	}
	return renderRecord(configurationView, format, rec)
}

func (ts *Toolset) createConfiguration(ctx context.Context, in CreateConfigurationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	for name, value := range map[string]string{
		"organization_id":       in.OrganizationID,
		"name":                  in.Name,
		"configuration_type_id": in.ConfigurationTypeID,
	} {
		if err := required(name, value); err != nil {
			return "", err
		}
	}

	return ts.mutation(ctx, "itglue_create_configuration", itglue.TypeConfigurations, audit.ActionCreate, nil, func() (string, error) {
		rec, err := ts.svc.CreateConfiguration(ctx, in.OrganizationID, map[string]any{
			"name":                    in.Name,
			"configuration_type_id":   in.ConfigurationTypeID,
			"configuration_status_id": in.ConfigurationStatusID,
			"hostname":                in.Hostname,
			"primary_ip":              in.PrimaryIP,
			"mac_address":             in.MACAddress,
			"serial_number":           in.SerialNumber,
			"asset_tag":               in.AssetTag,
			"location_id":             in.LocationID,
			"notes":                   in.Notes,
		})
		if err != nil {
			return "", err
		}
		return mutationSummary("Created", configurationView, rec, format)
	})
}

func (ts *Toolset) updateConfiguration(ctx context.Context, in UpdateConfigurationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	attrs := map[string]any{
		"name":                    in.Name,
		"configuration_type_id":   in.ConfigurationTypeID,
		"configuration_status_id": in.ConfigurationStatusID,
		"hostname":                in.Hostname,
		"primary_ip":              in.PrimaryIP,
		"mac_address":             in.MACAddress,
		"serial_number":           in.SerialNumber,
		"asset_tag":               in.AssetTag,
		"location_id":             in.LocationID,
		"notes":                   in.Notes,
		"archived":                in.Archived,
	}
	if err := anyProvided(attrs); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_update_configuration", itglue.TypeConfigurations, audit.ActionUpdate, []string{in.ID}, func() (string, error) {
		rec, err := ts.svc.UpdateConfiguration(ctx, in.ID, attrs)
		if err != nil {
			return "", err
		}
		return mutationSummary("Updated", configurationView, rec, format)
	})
}

func (ts *Toolset) deleteConfigurations(ctx context.Context, in DeleteInput) (string, error) {
	if err := requiredIDs(in.IDs); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_delete_configurations", itglue.TypeConfigurations, audit.ActionDelete, in.IDs, func() (string, error) {
		if err := ts.svc.DeleteConfigurations(ctx, in.IDs); err != nil {
			return "", err
		}
		return deletedSummary(configurationView, in.IDs), nil
	})
}

func deletedSummary(v view, ids []string) string {
	noun := v.plural
	if len(ids) == 1 {
		noun = v.singular
	}
	return fmt.Sprintf("Deleted %d %s: %s.", len(ids), noun, strings.Join(ids, ", "))
}
