package content

// Category sets are fixed per entity type. The admin form layer constrains
// input to these values; the store itself does not enforce them.
var (
	SkillCategories      = []string{"AI/Data", "Backend", "Frontend", "Tools"}
	ProjectCategories    = []string{"AI", "Data", "Model"}
	ExperienceCategories = []string{"Personal Project", "Freelance", "Collaboration"}
	BlogCategories       = []string{"What You Learned", "How You Built Something", "Lessons From Failure"}
	ContactPlatforms     = []string{"Email", "LinkedIn", "GitHub", "Calendly"}
)

// ValidCategory reports whether value is one of the allowed categories.
func ValidCategory(allowed []string, value string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
