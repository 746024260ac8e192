package content

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// ParseTechList splits a comma-joined technologies field into an ordered list,
// trimming whitespace and discarding blank tokens. This is lossy for names that
// legitimately contain commas; the edit form round-trips through a single text
// field, so that limitation is inherited from the data entry surface.
func ParseTechList(raw string) []string {
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// JoinTechList renders the stored list back into the form's comma-joined field.
func JoinTechList(list []string) string {
	return strings.Join(list, ", ")
}

// TechListJSON encodes the list for a jsonb column. A nil or empty list encodes
// as an empty array, never null, so readers can range without nil checks.
func TechListJSON(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		// []string 序列化不会失败，留兜底避免脏列。
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

// TechListFromJSON decodes a stored jsonb array; malformed data yields an empty list.
func TechListFromJSON(data datatypes.JSON) []string {
	var list []string
	if len(data) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// OptionalString normalizes an optional form value: an empty or blank string
// persists as the absence marker (NULL), never as "".
func OptionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
