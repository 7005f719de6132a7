package form

import "github.com/prokizzle/feeling-mindful-website/internal/apps"

// BetaSignupFields returns the inputs shown on the beta signup form for app.
// Unknown apps get the default app's form.
func BetaSignupFields(app string) []Field {
	cfg, ok := apps.ConfigFor(app)
	if !ok {
		cfg, _ = apps.ConfigFor(apps.Default)
	}

	fields := []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Required: true},
	}
	if cfg.ShowPlatform {
		fields = append(fields, Field{
			Name:     "platform",
			Label:    "Platform",
			Required: true,
			Options:  append([]string(nil), apps.Platforms...),
		})
	}
	if cfg.ShowExperience {
		labels := make([]string, 0, len(apps.Experiences))
		for _, level := range apps.Experiences {
			labels = append(labels, apps.ExperienceLabels[level])
		}
		fields = append(fields, Field{
			Name:     "experience",
			Label:    "Meditation experience",
			Required: true,
			Options:  labels,
		})
	}
	return fields
}

// DeletionFields returns the inputs of the data-deletion form.
func DeletionFields() []Field {
	return []Field{
		{Name: "email", Label: "Email address", Required: true},
		{Name: "reason", Label: "Reason for deletion"},
	}
}
