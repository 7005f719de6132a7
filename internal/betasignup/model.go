package betasignup

// Collection is the document store collection beta signups are appended to.
const Collection = "beta-testers"

// Signup is one beta tester record. Invited and UserID are managed by
// whoever processes the list; a fresh signup is never invited.
type Signup struct {
	ID         string
	Name       string
	Email      string
	Platform   string
	Experience *string
	App        string
	Invited    bool
	UserID     *string
}
