package skilltree

var seed = MustCatalog(seedNodes())

// Seed returns the built-in career catalog.
func Seed() *Catalog {
	return seed
}

func suggested(ids ...string) []Connection {
	conns := make([]Connection, 0, len(ids))
	for _, id := range ids {
		conns = append(conns, Connection{TargetID: id, Type: ConnectionSuggested})
	}
	return conns
}

func seedNodes() []Node {
	nodes := []Node{
		{
			ID:            "foundation-basics",
			Title:         "Basic Education",
			Description:   "Complete high school education with strong foundation in core subjects",
			Type:          TypeMilestone,
			Category:      CategoryFoundation,
			Difficulty:    1,
			EstimatedTime: "2 years",
			Position:      &Position{X: 0, Y: 0},
			Connections:   suggested("science-gateway", "commerce-gateway", "arts-gateway"),
			Requirements: []Requirement{
				{ID: "req-1", Description: "Complete Class 10 with 60%+ marks", Difficulty: 2, EstimatedTime: "1 year"},
				{ID: "req-2", Description: "Complete Class 12 with 70%+ marks", Difficulty: 3, EstimatedTime: "1 year"},
			},
			XPReward: 100,
		},
		{
			ID:            "science-gateway",
			Title:         "Science Stream",
			Description:   "Choose science stream focusing on Physics, Chemistry, Mathematics/Biology",
			Type:          TypeCourse,
			Category:      CategoryScience,
			Prerequisites: []string{"foundation-basics"},
			Difficulty:    2,
			EstimatedTime: "2 years",
			Position:      &Position{X: -300, Y: 200},
			Connections:   suggested("engineering-path", "medical-path", "research-path"),
			Requirements: []Requirement{
				{
					ID: "req-3", Description: "Complete PCM/PCB with 75%+ marks", Difficulty: 3, EstimatedTime: "2 years",
					Resources: []Resource{
						{Title: "NCERT Science Books", URL: "#", Type: "book"},
						{Title: "Khan Academy Science", URL: "#", Type: "course"},
					},
				},
			},
			XPReward: 150,
		},
		{
			ID:            "commerce-gateway",
			Title:         "Commerce Stream",
			Description:   "Choose commerce stream focusing on Business, Economics, and Accounting",
			Type:          TypeCourse,
			Category:      CategoryCommerce,
			Prerequisites: []string{"foundation-basics"},
			Difficulty:    2,
			EstimatedTime: "2 years",
			Position:      &Position{X: 0, Y: 200},
			Connections:   suggested("business-path", "finance-path", "economics-path"),
			Requirements: []Requirement{
				{ID: "req-4", Description: "Complete Commerce subjects with 70%+ marks", Difficulty: 2, EstimatedTime: "2 years"},
			},
			XPReward: 150,
		},
		{
			ID:            "arts-gateway",
			Title:         "Arts/Humanities Stream",
			Description:   "Choose arts stream focusing on Literature, History, Psychology, and Social Sciences",
			Type:          TypeCourse,
			Category:      CategoryArts,
			Prerequisites: []string{"foundation-basics"},
			Difficulty:    2,
			EstimatedTime: "2 years",
			Position:      &Position{X: 300, Y: 200},
			Connections:   suggested("literature-path", "psychology-path", "design-path"),
			Requirements: []Requirement{
				{ID: "req-5", Description: "Complete Arts subjects with 65%+ marks", Difficulty: 2, EstimatedTime: "2 years"},
			},
			XPReward: 150,
		},
		{
			ID:            "engineering-path",
			Title:         "Engineering Entrance",
			Description:   "Prepare for and clear JEE/NEET or state engineering entrance exams",
			Type:          TypeCertification,
			Category:      CategoryScience,
			Prerequisites: []string{"science-gateway"},
			Difficulty:    4,
			EstimatedTime: "1-2 years",
			Position:      &Position{X: -500, Y: 400},
			Connections:   suggested("cs-engineering", "mechanical-engineering", "electrical-engineering"),
			Requirements: []Requirement{
				{ID: "req-6", Description: "Clear JEE Main with good rank", Difficulty: 4, EstimatedTime: "1 year"},
				{ID: "req-7", Description: "Optional: Clear JEE Advanced for IIT", Difficulty: 5, EstimatedTime: "1 year"},
			},
			XPReward: 300,
		},
		{
			ID:            "cs-engineering",
			Title:         "Computer Science Engineering",
			Description:   "Bachelor's degree in Computer Science with programming and software development focus",
			Type:          TypeDegree,
			Category:      CategoryScience,
			Prerequisites: []string{"engineering-path"},
			Difficulty:    4,
			EstimatedTime: "4 years",
			Position:      &Position{X: -700, Y: 600},
			Connections:   suggested("software-developer", "data-scientist", "ai-engineer"),
			Requirements: []Requirement{
				{ID: "req-8", Description: "Complete B.Tech CSE with 7+ CGPA", Difficulty: 4, EstimatedTime: "4 years"},
				{ID: "req-9", Description: "Build 3+ software projects", Difficulty: 3, EstimatedTime: "2 years"},
				{ID: "req-10", Description: "Complete internship at tech company", Difficulty: 3, EstimatedTime: "3 months"},
			},
			XPReward: 500,
		},
		{
			ID:            "software-developer",
			Title:         "Software Developer",
			Description:   "Full-time software development role building applications and systems",
			Type:          TypeJob,
			Category:      CategoryScience,
			Prerequisites: []string{"cs-engineering"},
			Difficulty:    3,
			EstimatedTime: "Career",
			Position:      &Position{X: -900, Y: 800},
			Connections:   suggested("senior-developer", "tech-lead"),
			Requirements: []Requirement{
				{ID: "req-11", Description: "Master programming languages (Python, JavaScript, Java)", Difficulty: 3, EstimatedTime: "1 year"},
				{ID: "req-12", Description: "Learn frameworks and tools", Difficulty: 3, EstimatedTime: "6 months"},
				{ID: "req-13", Description: "Clear technical interviews", Difficulty: 4, EstimatedTime: "3 months"},
			},
			XPReward: 400,
		},
		{
			ID:            "medical-path",
			Title:         "Medical Entrance",
			Description:   "Prepare for and clear NEET for medical college admission",
			Type:          TypeCertification,
			Category:      CategoryScience,
			Prerequisites: []string{"science-gateway"},
			Difficulty:    5,
			EstimatedTime: "1-2 years",
			Position:      &Position{X: -300, Y: 400},
			Connections:   suggested("mbbs-degree"),
			Requirements: []Requirement{
				{ID: "req-14", Description: "Clear NEET with qualifying score", Difficulty: 5, EstimatedTime: "1 year"},
			},
			XPReward: 400,
		},
		{
			ID:            "business-path",
			Title:         "Business Studies",
			Description:   "Bachelor's in Business Administration or Commerce",
			Type:          TypeDegree,
			Category:      CategoryCommerce,
			Prerequisites: []string{"commerce-gateway"},
			Difficulty:    3,
			EstimatedTime: "3 years",
			Position:      &Position{X: -200, Y: 400},
			Connections:   suggested("mba-path", "marketing-specialist", "business-analyst"),
			Requirements: []Requirement{
				{ID: "req-15", Description: "Complete BBA/B.Com with 70%+ marks", Difficulty: 3, EstimatedTime: "3 years"},
			},
			XPReward: 300,
		},
		{
			ID:            "psychology-path",
			Title:         "Psychology Degree",
			Description:   "Bachelor's in Psychology understanding human behavior and mental processes",
			Type:          TypeDegree,
			Category:      CategoryArts,
			Prerequisites: []string{"arts-gateway"},
			Difficulty:    3,
			EstimatedTime: "3 years",
			Position:      &Position{X: 500, Y: 400},
			Connections:   suggested("clinical-psychologist", "counselor"),
			Requirements: []Requirement{
				{ID: "req-16", Description: "Complete B.A./B.Sc. Psychology with 65%+ marks", Difficulty: 3, EstimatedTime: "3 years"},
			},
			XPReward: 300,
		},
		{
			ID:            "design-path",
			Title:         "Design Studies",
			Description:   "Creative design education in graphics, UI/UX, or product design",
			Type:          TypeDegree,
			Category:      CategoryArts,
			Prerequisites: []string{"arts-gateway"},
			Difficulty:    3,
			EstimatedTime: "3-4 years",
			Position:      &Position{X: 300, Y: 400},
			Connections:   suggested("ui-designer", "graphic-designer"),
			Requirements: []Requirement{
				{ID: "req-17", Description: "Complete design portfolio", Difficulty: 4, EstimatedTime: "1 year"},
				{ID: "req-18", Description: "Master design software (Figma, Photoshop, Illustrator)", Difficulty: 3, EstimatedTime: "6 months"},
			},
			XPReward: 350,
		},
		{
			ID:            "ai-engineer",
			Title:         "AI/ML Engineer",
			Description:   "Specialized role in artificial intelligence and machine learning development",
			Type:          TypeJob,
			Category:      CategoryInterdisciplinary,
			Prerequisites: []string{"cs-engineering", "data-scientist"},
			Difficulty:    5,
			EstimatedTime: "Career",
			Position:      &Position{X: -500, Y: 800},
			Requirements: []Requirement{
				{ID: "req-19", Description: "Master ML frameworks (TensorFlow, PyTorch)", Difficulty: 4, EstimatedTime: "1 year"},
				{ID: "req-20", Description: "Complete AI/ML projects", Difficulty: 4, EstimatedTime: "8 months"},
			},
			XPReward: 600,
		},
		{
			ID:            "data-scientist",
			Title:         "Data Scientist",
			Description:   "Analyze complex data to extract insights and drive business decisions",
			Type:          TypeJob,
			Category:      CategoryInterdisciplinary,
			Prerequisites: []string{"cs-engineering"},
			Difficulty:    4,
			EstimatedTime: "Career",
			Position:      &Position{X: -700, Y: 1000},
			Connections:   suggested("ai-engineer"),
			Requirements: []Requirement{
				{ID: "req-21", Description: "Master statistics and data analysis", Difficulty: 4, EstimatedTime: "8 months"},
				{ID: "req-22", Description: "Learn data visualization tools", Difficulty: 3, EstimatedTime: "4 months"},
			},
			XPReward: 500,
		},
	}
	for i := range nodes {
		nodes[i].Source = SourceSeed
	}
	return nodes
}
