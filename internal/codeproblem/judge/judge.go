// Package judge scores submissions against a problem's test cases.
package judge

import (
	"math"
	"strings"

	"questify/internal/codeproblem"
)

// Verdict is the outcome of judging one submission.
type Verdict struct {
	Passed   int
	Total    int
	Progress float64
	Finished bool
	Gold     int
	Point    int
}

// Evaluate compares the submission's outputs to the expected outputs case
// by case. Comparison ignores leading and trailing whitespace; everything
// else is exact. Points scale with the pass ratio, gold pays out only on a
// full pass.
func Evaluate(problem codeproblem.CodeProblem, outputs []string) Verdict {
	total := len(problem.TestCases)
	if total == 0 {
		return Verdict{Finished: true, Progress: 1, Gold: problem.GoldReward, Point: problem.PointReward}
	}

	passed := 0
	for i, tc := range problem.TestCases {
		if i >= len(outputs) {
			break
		}
		if strings.TrimSpace(outputs[i]) == strings.TrimSpace(tc.ExpectedOutput) {
			passed++
		}
	}

	progress := float64(passed) / float64(total)
	verdict := Verdict{
		Passed:   passed,
		Total:    total,
		Progress: progress,
		Finished: passed == total,
		Point:    int(math.Round(float64(problem.PointReward) * progress)),
	}
	if verdict.Finished {
		verdict.Gold = problem.GoldReward
	}
	return verdict
}
