package topicgraph

// DefaultCurriculum returns the built-in algebra curriculum, organized
// into five levels from basic concepts to calculus fundamentals.
func DefaultCurriculum() []Topic {
	return []Topic{
		// Level 0: basic concepts
		{
			Name:       "Introduction to Algebra",
			Level:      0,
			Difficulty: 0.2,
			Content:    "Basic algebraic expressions and equations",
		},
		{
			Name:       "Variables and Expressions",
			Level:      0,
			Difficulty: 0.3,
			Content:    "Understanding variables and evaluating expressions",
		},

		// Level 1: elementary operations
		{
			Name:          "Linear Equations",
			Level:         1,
			Difficulty:    0.4,
			Prerequisites: []string{"Introduction to Algebra"},
			Content:       "Solving linear equations with one variable",
		},
		{
			Name:          "Basic Inequalities",
			Level:         1,
			Difficulty:    0.5,
			Prerequisites: []string{"Variables and Expressions"},
			Content:       "Understanding and solving basic inequalities",
		},

		// Level 2: intermediate concepts
		{
			Name:          "Quadratic Equations",
			Level:         2,
			Difficulty:    0.6,
			Prerequisites: []string{"Linear Equations"},
			Content:       "Solving quadratic equations by factoring",
		},
		{
			Name:          "Systems of Equations",
			Level:         2,
			Difficulty:    0.7,
			Prerequisites: []string{"Linear Equations"},
			Content:       "Solving systems of linear equations",
		},

		// Level 3: advanced topics
		{
			Name:          "Polynomial Functions",
			Level:         3,
			Difficulty:    0.8,
			Prerequisites: []string{"Quadratic Equations"},
			Content:       "Understanding and working with polynomial functions",
		},
		{
			Name:          "Trigonometric Basics",
			Level:         3,
			Difficulty:    0.9,
			Prerequisites: []string{"Linear Equations", "Quadratic Equations"},
			Content:       "Introduction to sine, cosine, tangent",
		},

		// Level 4: expert level
		{
			Name:          "Calculus Fundamentals",
			Level:         4,
			Difficulty:    0.95,
			Prerequisites: []string{"Polynomial Functions", "Trigonometric Basics"},
			Content:       "Introduction to derivatives and integrals",
		},
	}
}
