package handlers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
)

// Validation limits for template, project and reference fields.
const (
	maxTemplateNameLen = 200
	maxTemplateBodyLen = 100_000
	maxProjectNameLen  = 300
	maxReferences      = 5_000
)

// validateTemplateName checks a normalized template name and returns the
// first error found.
func validateTemplateName(name string) string {
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if strings.HasPrefix(name, "#") {
		return "Template name cannot start with '#'."
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "Template name cannot contain line breaks or control characters."
	}
	return ""
}

// validateTemplateBody checks a normalized template body.
func validateTemplateBody(body string) string {
	if utf8.RuneCountInString(body) > maxTemplateBodyLen {
		return "Template body is too long (max 100,000 characters)."
	}
	// A line starting with '#' would be read back as a template header.
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimRight(line, "\r"), "#") {
			return "Template body lines cannot start with '#'."
		}
	}
	return ""
}

// validateEdit checks the value of a normalized cell edit.
func validateEdit(e lgtable.Edit) string {
	if e.Field == lgtable.FieldName {
		return validateTemplateName(e.Value)
	}
	return validateTemplateBody(e.Value)
}

// validateProject checks a project settings submission.
func validateProject(p *models.Project) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "Project name is required."
	}
	if utf8.RuneCountInString(name) > maxProjectNameLen {
		return "Project name is too long (max 300 characters)."
	}
	if err := p.Locales.Validate(); err != nil {
		return "Invalid locale settings: " + err.Error() + "."
	}
	return ""
}

// validateReferences checks the template names a dialog references.
func validateReferences(names []string) string {
	if len(names) > maxReferences {
		return "Too many references (max 5,000)."
	}
	for _, n := range names {
		if msg := validateTemplateName(n); msg != "" {
			return "Reference " + `"` + n + `": ` + msg
		}
	}
	return ""
}
