package faq

// DefaultMatchingTaxonomy drives the best-match scorer.
func DefaultMatchingTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "camptocamp", Keywords: []string{"current", "job", "work", "company", "role", "position"}},
		{Name: "education", Keywords: []string{"study", "degree", "university", "college", "school", "master", "msc"}},
		{Name: "technologies", Keywords: []string{"tech", "tools", "programming", "languages", "frameworks", "skills"}},
		{Name: "projects", Keywords: []string{"project", "work", "portfolio", "built", "created", "developed"}},
		{Name: "contact", Keywords: []string{"contact", "email", "reach", "hire", "message"}},
		{Name: "experience", Keywords: []string{"experience", "career", "history", "background", "timeline"}},
		{Name: "gis", Keywords: []string{"gis", "mapping", "maps", "geospatial", "spatial", "qgis", "arcgis"}},
		{Name: "freelance", Keywords: []string{"freelance", "consulting", "available", "hire", "services"}},
		{Name: "location", Keywords: []string{"germany", "berlin", "where", "location", "based"}},
		{Name: "interests", Keywords: []string{"hobbies", "interests", "personal", "chess", "dance", "f1", "potter"}},
	}
}

// DefaultSuggestionTaxonomy drives follow-up suggestion ranking.
func DefaultSuggestionTaxonomy() Taxonomy {
	return Taxonomy{
		{Name: "current_role", Keywords: []string{"camptocamp", "current", "job", "work", "role", "position"}},
		{Name: "technologies", Keywords: []string{"tech", "programming", "languages", "tools", "frameworks"}},
		{Name: "projects", Keywords: []string{"project", "work", "portfolio", "built", "created"}},
		{Name: "experience", Keywords: []string{"experience", "career", "background", "history"}},
		{Name: "education", Keywords: []string{"education", "study", "degree", "university"}},
		{Name: "contact", Keywords: []string{"contact", "email", "hire", "freelance"}},
		{Name: "gis", Keywords: []string{"gis", "mapping", "spatial", "qgis", "arcgis"}},
		{Name: "services", Keywords: []string{"services", "offer", "consulting", "available"}},
	}
}
