package grading

// letterCutoff maps a minimum percentage to its letter grade.
type letterCutoff struct {
	min    float64
	letter string
}

var scale = []letterCutoff{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// LetterGrade converts a percentage into its letter grade.
func LetterGrade(percentage float64) string {
	for _, c := range scale {
		if percentage >= c.min {
			return c.letter
		}
	}
	return "F"
}

// Percentage computes the percentage grade from earned and possible points.
// Returns 0 when no points were possible.
func Percentage(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return earned / possible * 100
}
