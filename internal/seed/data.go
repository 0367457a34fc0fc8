package seed

import "github.com/aitutor/tutor-api/internal/content"

func str(s string) *string { return &s }
func num(i int) *int       { return &i }

func books() []content.Book {
	return []content.Book{
		{Title: "NCERT Mathematics Class 10", Author: "NCERT", Stream: "CBSE", ClassLevel: 10,
			Subject: "Mathematics", Topic: "Quadratic Equations",
			Summary: str("Standard form ax² + bx + c = 0, solving by factorization, completing the square and the quadratic formula, nature of roots via the discriminant, and applications."),
			Tags:    str("algebra,equations,quadratic,mathematics")},
		{Title: "NCERT Mathematics Class 10", Author: "NCERT", Stream: "CBSE", ClassLevel: 10,
			Subject: "Mathematics", Topic: "Trigonometry",
			Summary: str("Trigonometric ratios for acute angles, identities, and heights and distances."),
			Tags:    str("trigonometry,ratios,angles,mathematics")},
		{Title: "NCERT Science Class 10", Author: "NCERT", Stream: "CBSE", ClassLevel: 10,
			Subject: "Science", Topic: "Chemical Reactions and Equations",
			Summary: str("Writing and balancing chemical equations; combination, decomposition, displacement, double displacement and redox reactions."),
			Tags:    str("chemistry,reactions,equations,science")},
		{Title: "NCERT Science Class 10", Author: "NCERT", Stream: "CBSE", ClassLevel: 10,
			Subject: "Science", Topic: "Light - Reflection and Refraction",
			Summary: str("Laws of reflection, spherical mirrors, mirror formula, refraction, refractive index, lens formula and power of a lens."),
			Tags:    str("physics,light,optics,mirrors,lenses")},
		{Title: "NCERT Science Class 10", Author: "NCERT", Stream: "CBSE", ClassLevel: 10,
			Subject: "Science", Topic: "Electricity",
			Summary: str("Current, potential difference, Ohm's law, resistance, series and parallel resistors, heating effect and electric power."),
			Tags:    str("physics,electricity,circuits,ohms law")},
		{Title: "ICSE Physics Concise", Author: "Selina Publishers", Stream: "ICSE", ClassLevel: 10,
			Subject: "Physics", Topic: "Force",
			Summary: str("Types of forces, Newton's laws of motion, momentum and its conservation."),
			Tags:    str("physics,force,motion,newtons laws")},
	}
}

func videos() []content.Video {
	return []content.Video{
		{Title: "Quadratic Equations - Complete Chapter", TeacherName: "Dr. Sharma", Stream: "CBSE", ClassLevel: 10,
			Subject: "Mathematics", Topic: "Quadratic Equations", Duration: num(2400), Difficulty: "intermediate",
			Description: str("Quadratic equations with solved examples and practice problems."),
			Tags:        str("mathematics,algebra,quadratic")},
		{Title: "Trigonometry Basics", TeacherName: "Mrs. Gupta", Stream: "CBSE", ClassLevel: 10,
			Subject: "Mathematics", Topic: "Trigonometry", Duration: num(1800), Difficulty: "beginner",
			Description: str("Introduction to trigonometric ratios with easy examples."),
			Tags:        str("mathematics,trigonometry,basics")},
		{Title: "Chemical Reactions Explained", TeacherName: "Mr. Verma", Stream: "CBSE", ClassLevel: 10,
			Subject: "Science", Topic: "Chemical Reactions and Equations", Duration: num(2100), Difficulty: "intermediate",
			Description: str("Types of chemical reactions with demonstrations."),
			Tags:        str("science,chemistry,reactions")},
		{Title: "Light and Optics", TeacherName: "Dr. Sharma", Stream: "CBSE", ClassLevel: 10,
			Subject: "Science", Topic: "Light - Reflection and Refraction", Duration: num(2700), Difficulty: "intermediate",
			Description: str("Reflection, refraction, mirrors and lenses."),
			Tags:        str("physics,optics,light")},
	}
}

func q(text string, correct int, explanation string, options ...string) content.Question {
	return content.Question{Question: text, Options: options, CorrectAnswer: num(correct), Explanation: explanation}
}

func quizzes() []content.Quiz {
	return []content.Quiz{
		{Title: "Quadratic Equations Quiz", Stream: "CBSE", ClassLevel: 10, Subject: "Mathematics",
			Topic: "Quadratic Equations", Difficulty: "intermediate",
			Questions: []content.Question{
				q("What is the standard form of a quadratic equation?", 1,
					"A quadratic equation in standard form is ax² + bx + c = 0, where a ≠ 0.",
					"ax + b = 0", "ax² + bx + c = 0", "ax³ + bx² + cx + d = 0", "a/x + b = 0"),
				q("If the discriminant (b² - 4ac) is negative, the quadratic equation has:", 2,
					"When the discriminant is negative there are no real roots.",
					"Two distinct real roots", "Two equal real roots", "No real roots", "One real root"),
				q("Solve: x² - 5x + 6 = 0", 1,
					"(x-2)(x-3) = 0, so x = 2 or x = 3.",
					"x = 1, 6", "x = 2, 3", "x = -2, -3", "x = 1, 5"),
				q("The sum of roots of ax² + bx + c = 0 is:", 1,
					"Sum of roots = -b/a by Vieta's formulas.",
					"b/a", "-b/a", "c/a", "-c/a"),
				q("Which method always works for solving quadratic equations?", 2,
					"The quadratic formula always gives the roots.",
					"Factorization", "Completing the square", "Quadratic formula", "All of the above"),
			}},
		{Title: "Trigonometry Basics Quiz", Stream: "CBSE", ClassLevel: 10, Subject: "Mathematics",
			Topic: "Trigonometry", Difficulty: "beginner",
			Questions: []content.Question{
				q("In a right triangle, sin θ is defined as:", 1, "sin θ = Opposite / Hypotenuse.",
					"Adjacent/Hypotenuse", "Opposite/Hypotenuse", "Opposite/Adjacent", "Hypotenuse/Opposite"),
				q("What is the value of sin 30°?", 1, "sin 30° = 1/2.", "1", "1/2", "√3/2", "0"),
				q("tan θ can be expressed as:", 0, "tan θ = sin θ / cos θ.",
					"sin θ / cos θ", "cos θ / sin θ", "sin θ × cos θ", "1 / sin θ"),
				q("What is the value of sin²θ + cos²θ?", 1, "sin²θ + cos²θ = 1.", "0", "1", "2", "Depends on θ"),
			}},
		{Title: "Chemical Reactions Quiz", Stream: "CBSE", ClassLevel: 10, Subject: "Science",
			Topic: "Chemical Reactions and Equations", Difficulty: "intermediate",
			Questions: []content.Question{
				q("In a balanced chemical equation, the number of atoms of each element on the reactant side is:", 2,
					"Conservation of mass requires equal atoms on both sides.",
					"Double on product side", "Half on product side", "Equal on product side", "None of the above"),
				q("Which type of reaction is: 2Mg + O₂ → 2MgO?", 1,
					"Two substances combine into a single product.",
					"Decomposition", "Combination", "Displacement", "Double displacement"),
				q("Rusting of iron is an example of:", 2,
					"Iron combines with oxygen and is oxidised.",
					"Combination reaction", "Oxidation reaction", "Both A and B", "Neither A nor B"),
			}},
	}
}
