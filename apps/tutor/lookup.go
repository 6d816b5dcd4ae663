package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

const suggestMinRatio = .6

// findStudent resolves ref as an id, then as a name: exact match first, then a unique partial match.
func (cli *commandLine) findStudent(ref string) (student.Student, error) {
	ref = core.CleanString(ref)
	if ref == "" {
		return student.Student{}, core.NewValidationError(nil, core.FieldError{Field: "student", Error: "this field is required"})
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return cli.sess.GetStudent(id)
	}

	matches, err := cli.sess.SearchStudents(ref)
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range matches {
		if strings.EqualFold(std.Name, ref) {
			return std, nil
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		all, err := cli.sess.ListStudents()
		if err != nil {
			return student.Student{}, err
		}
		msg := fmt.Sprintf("no student named %q", ref)
		if sugg := suggestNames(ref, all); len(sugg) > 0 {
			msg += fmt.Sprintf(", did you mean %s?", strings.Join(sugg, " or "))
		}
		return student.Student{}, core.NewValidationError(nil, core.FieldError{Field: "student", Error: msg})
	}
	names := make([]string, 0, len(matches))
	for _, std := range matches {
		names = append(names, fmt.Sprintf("%s (%d)", std.Name, std.ID))
	}
	return student.Student{}, core.NewValidationError(nil, core.FieldError{
		Field: "student",
		Error: fmt.Sprintf("%q matches several students: %s", ref, strings.Join(names, ", ")),
	})
}

// suggestNames returns up to 3 names close to ref, best first.
func suggestNames(ref string, students []student.Student) []string {
	type scored struct {
		name  string
		ratio float64
	}
	lref := strings.Split(strings.ToLower(ref), "")
	var candidates []scored
	for _, std := range students {
		m := difflib.NewMatcher(lref, strings.Split(strings.ToLower(std.Name), ""))
		if m.RealQuickRatio() < suggestMinRatio || m.QuickRatio() < suggestMinRatio {
			continue
		}
		if r := m.Ratio(); r >= suggestMinRatio {
			candidates = append(candidates, scored{name: std.Name, ratio: r})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ratio > candidates[j].ratio })

	var names []string
	for i := 0; i < len(candidates) && i < 3; i++ {
		names = append(names, strconv.Quote(candidates[i].name))
	}
	return names
}
