// Package apps describes the apps that take beta signups and the options
// their signup forms offer. It is shared by the API and the form client.
package apps

// Supported apps.
const (
	Awareness     = "awareness"
	SimpleRituals = "simple-rituals"
	Default       = Awareness
)

// Platforms a tester can ask for.
const (
	PlatformIOS     = "iOS"
	PlatformAndroid = "Android"
	PlatformBoth    = "Both"
	DefaultPlatform = PlatformIOS
)

// Platforms lists the platform options in form order.
var Platforms = []string{PlatformIOS, PlatformAndroid, PlatformBoth}

// Meditation experience levels.
const (
	ExperienceNew     = "new"
	ExperienceSome    = "some"
	ExperienceRegular = "regular"
)

// Experiences lists the levels in form order.
var Experiences = []string{ExperienceNew, ExperienceSome, ExperienceRegular}

// ExperienceLabels maps each level to the label shown on the form.
var ExperienceLabels = map[string]string{
	ExperienceNew:     "New to meditation",
	ExperienceSome:    "Some experience",
	ExperienceRegular: "Regular practice",
}

// Config drives how the signup form is presented for one app.
type Config struct {
	App            string `json:"app"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	SuccessMessage string `json:"successMessage"`
	ShowPlatform   bool   `json:"showPlatform"`
	ShowExperience bool   `json:"showExperience"`
}

// Configs lists every app that accepts beta signups.
var Configs = map[string]Config{
	Awareness: {
		App:            Awareness,
		Title:          "Join the Awareness Beta",
		Description:    "Get early access to Awareness and help shape the future of mindful living.",
		SuccessMessage: "Thanks for signing up for the Awareness beta. We'll be in touch soon with access details.",
		ShowPlatform:   true,
		ShowExperience: true,
	},
	SimpleRituals: {
		App:            SimpleRituals,
		Title:          "Join the Simple Rituals Beta",
		Description:    "Get early access to Simple Rituals and help us build better routines.",
		SuccessMessage: "Thanks for signing up for the Simple Rituals beta. We'll be in touch soon with access details.",
	},
}

// ConfigFor returns the configuration for app. An empty app means Default.
func ConfigFor(app string) (Config, bool) {
	if app == "" {
		app = Default
	}
	cfg, ok := Configs[app]
	return cfg, ok
}
