package content

import "testing"

type groupedItem struct {
	Name     string
	Category string
}

func TestGroupByCategoryPreservesOrder(t *testing.T) {
	records := []groupedItem{
		{Name: "Python", Category: "AI/Data"},
		{Name: "Go", Category: "Backend"},
		{Name: "Pandas", Category: "AI/Data"},
		{Name: "Postgres", Category: "Backend"},
	}

	groups := GroupByCategory(records, SkillCategories, func(r groupedItem) string { return r.Category })

	if len(groups) != len(SkillCategories) {
		t.Fatalf("expected %d groups got %d", len(SkillCategories), len(groups))
	}
	for i, cat := range SkillCategories {
		if groups[i].Category != cat {
			t.Fatalf("group %d: expected category %q got %q", i, cat, groups[i].Category)
		}
	}

	aiData := groups[0].Items
	if len(aiData) != 2 || aiData[0].Name != "Python" || aiData[1].Name != "Pandas" {
		t.Fatalf("AI/Data group lost relative order: %+v", aiData)
	}
	backend := groups[1].Items
	if len(backend) != 2 || backend[0].Name != "Go" || backend[1].Name != "Postgres" {
		t.Fatalf("Backend group lost relative order: %+v", backend)
	}
}

func TestGroupByCategoryEmptyGroupsAreNonNil(t *testing.T) {
	groups := GroupByCategory([]groupedItem{}, SkillCategories, func(r groupedItem) string { return r.Category })

	for _, g := range groups {
		if g.Items == nil {
			t.Fatalf("group %q has nil items", g.Category)
		}
		if len(g.Items) != 0 {
			t.Fatalf("group %q should be empty, got %+v", g.Category, g.Items)
		}
	}
}

func TestGroupByCategoryDropsUnknownCategories(t *testing.T) {
	records := []groupedItem{
		{Name: "Go", Category: "Backend"},
		{Name: "Mystery", Category: "Not A Tab"},
	}

	groups := GroupByCategory(records, SkillCategories, func(r groupedItem) string { return r.Category })

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	if total != 1 {
		t.Fatalf("expected only known-category records kept, got %d", total)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(ProjectCategories, "AI") {
		t.Fatal("AI should be a valid project category")
	}
	if ValidCategory(ProjectCategories, "ai") {
		t.Fatal("category match must be exact")
	}
	if ValidCategory(ContactPlatforms, "") {
		t.Fatal("empty platform must be invalid")
	}
}
