package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
)

// passwordView never prints the secret. getPassword uses revealedPasswordView
// when the caller asked for it.
var (
	passwordView = view{
		singular: "password",
		plural:   "passwords",
		fields:   []string{"organization_name", "username", "url", "password_category_name", "resource_type", "updated_at"},
		hidden:   []string{"password"},
	}
	revealedPasswordView = view{
		singular: passwordView.singular,
		plural:   passwordView.plural,
		fields:   append([]string{"password"}, passwordView.fields...),
	}
)

// ListPasswordsInput holds the arguments of itglue_list_passwords.
type ListPasswordsInput struct {
	OrganizationID     string `json:"organization_id,omitempty" jsonschema:"only list passwords of this organization"`
	Name               string `json:"name,omitempty" jsonschema:"filter by password name"`
	PasswordCategoryID string `json:"password_category_id,omitempty" jsonschema:"filter by password category ID"`
	URL                string `json:"url,omitempty" jsonschema:"filter by URL"`
	PageNumber         int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize           int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort               string `json:"sort,omitempty" jsonschema:"sort field such as name or -updated_at"`
	ResponseFormat     string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetPasswordInput identifies the password to fetch and whether to reveal its secret.
type GetPasswordInput struct {
	ID             string `json:"id" jsonschema:"password ID"`
	ShowPassword   bool   `json:"show_password,omitempty" jsonschema:"include the secret in the response (default false)"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// CreatePasswordInput holds the attributes of a new password.
type CreatePasswordInput struct {
	OrganizationID     string  `json:"organization_id" jsonschema:"organization that owns the password"`
	Name               string  `json:"name" jsonschema:"password name"`
	Password           string  `json:"password" jsonschema:"the secret value"`
	Username           *string `json:"username,omitempty" jsonschema:"user name"`
	URL                *string `json:"url,omitempty" jsonschema:"URL the credential is used for"`
	PasswordCategoryID *string `json:"password_category_id,omitempty" jsonschema:"password category ID"`
	Notes              *string `json:"notes,omitempty" jsonschema:"notes (HTML)"`
	ResponseFormat     string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// UpdatePasswordInput holds the password attributes to change. Omitted fields are left as they are.
type UpdatePasswordInput struct {
	ID                 string  `json:"id" jsonschema:"password ID"`
	Name               *string `json:"name,omitempty" jsonschema:"password name"`
	Password           *string `json:"password,omitempty" jsonschema:"the secret value"`
	Username           *string `json:"username,omitempty" jsonschema:"user name"`
	URL                *string `json:"url,omitempty" jsonschema:"URL the credential is used for"`
	PasswordCategoryID *string `json:"password_category_id,omitempty" jsonschema:"password category ID"`
	Notes              *string `json:"notes,omitempty" jsonschema:"notes (HTML)"`
	ResponseFormat     string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

func (ts *Toolset) registerPasswords(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_passwords",
		Description: "List IT Glue password entries, optionally within one organization. Secrets are never included in listings; use itglue_get_password with show_password to read one.",
		Annotations: readOnly("List Passwords"),
	}, "Filter by organization_id or password_category_id, or request a smaller page_size.", ts.listPasswords)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_password",
		Description: "Get one IT Glue password entry by ID. Set show_password to true to include the secret.",
		Annotations: readOnly("Get Password"),
	}, "", ts.getPassword)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_create_password",
		Description: "Create an IT Glue password entry in an organization. Requires organization_id, name and password.",
		Annotations: writes("Create Password", false, false),
	}, "", ts.createPassword)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_update_password",
		Description: "Update an IT Glue password entry. Only the fields provided are changed.",
		Annotations: writes("Update Password", false, true),
	}, "", ts.updatePassword)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_delete_passwords",
		Description: "Permanently delete one or more IT Glue password entries by ID in a single bulk request.",
		Annotations: writes("Delete Passwords", true, true),
	}, "", ts.deletePasswords)
}

func (ts *Toolset) listPasswords(ctx context.Context, in ListPasswordsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name":                 optional(in.Name),
		"password_category_id": optional(in.PasswordCategoryID),
		"url":                  optional(in.URL),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListPasswords(ctx, opts, in.OrganizationID)
	if err == nil {
		for _, rec := range page.Data {
			delete(rec, "password")
		}
	}
	return listing(passwordView, format, page, err)
}

func (ts *Toolset) getPassword(ctx context.Context, in GetPasswordInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	rec, err := ts.svc.GetPassword(ctx, in.ID, in.ShowPassword)
	if err != nil {
		return "", err
	}
	if !in.ShowPassword {
		delete(rec, "password")
		return renderRecord(passwordView, format, rec)
	}
	return renderRecord(revealedPasswordView, format, rec)
}

func (ts *Toolset) createPassword(ctx context.Context, in CreatePasswordInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	for _, arg := range [][2]string{
		{"organization_id", in.OrganizationID},
		{"name", in.Name},
		{"password", in.Password},
	} {
		if err := required(arg[0], arg[1]); err != nil {
			return "", err
		}
	}

	return ts.mutation(ctx, "itglue_create_password", itglue.TypePasswords, audit.ActionCreate, nil, func() (string, error) {
		rec, err := ts.svc.CreatePassword(ctx, in.OrganizationID, map[string]any{
			"name":                 in.Name,
			"password":             in.Password,
			"username":             in.Username,
			"url":                  in.URL,
			"password_category_id": in.PasswordCategoryID,
			"notes":                in.Notes,
		})
		if err != nil {
			return "", err
		}
		delete(rec, "password")
		return mutationSummary("Created", passwordView, rec, format)
	})
}

func (ts *Toolset) updatePassword(ctx context.Context, in UpdatePasswordInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	attrs := map[string]any{
		"name":                 in.Name,
		"password":             in.Password,
		"username":             in.Username,
		"url":                  in.URL,
		"password_category_id": in.PasswordCategoryID,
		"notes":                in.Notes,
	}
	if err := anyProvided(attrs); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_update_password", itglue.TypePasswords, audit.ActionUpdate, []string{in.ID}, func() (string, error) {
		rec, err := ts.svc.UpdatePassword(ctx, in.ID, attrs)
		if err != nil {
			return "", err
		}
		delete(rec, "password")
		return mutationSummary("Updated", passwordView, rec, format)
	})
}

func (ts *Toolset) deletePasswords(ctx context.Context, in DeleteInput) (string, error) {
	if err := requiredIDs(in.IDs); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_delete_passwords", itglue.TypePasswords, audit.ActionDelete, in.IDs, func() (string, error) {
		if err := ts.svc.DeletePasswords(ctx, in.IDs); err != nil {
			return "", err
		}
		return deletedSummary(passwordView, in.IDs), nil
	})
}
