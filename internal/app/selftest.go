package app

import (
	"fmt"
	"reflect"
	"time"

	"loyalty_quiz/internal/catalog"
	"loyalty_quiz/internal/domain"
	"loyalty_quiz/internal/quiz"
	"loyalty_quiz/internal/scoring"
)

type ExpectedEntry struct {
	Program string   `json:"program"`
	Total   float64  `json:"total"`
	Brands  []string `json:"example_brands"`
}

type SelfTestCase struct {
	Name     string                   `json:"name"`
	Answers  []string                 `json:"answers"`
	Expected []ExpectedEntry          `json:"expected"`
	Got      []scoring.Recommendation `json:"got"`
	Passed   bool                     `json:"passed"`
	Error    string                   `json:"error,omitempty"`
}

type SelfTestReport struct {
	Passed bool           `json:"passed"`
	Cases  []SelfTestCase `json:"cases"`
}

func selfTestDataset() domain.Dataset {
	add := func(ds domain.Dataset, n int, brand, program, region, country string) domain.Dataset {
		for i := 0; i < n; i++ {
			ds = append(ds, domain.HotelRecord{Brand: brand, LoyaltyProgram: program, Region: region, Country: country})
		}
		return ds
	}
	var ds domain.Dataset
	ds = add(ds, 3, "Marriott Hotels", "Marriott Bonvoy", "Europe", "Germany")
	ds = add(ds, 1, "Courtyard", "Marriott Bonvoy", "Europe", "Germany")
	ds = add(ds, 2, "Hilton", "Hilton Honors", "Europe", "United Kingdom")
	ds = add(ds, 1, "Hilton Garden Inn", "Hilton Honors", "Europe", "Italy")
	ds = add(ds, 2, "Holiday Inn", "IHG One Rewards", "Europe", "Poland")
	ds = add(ds, 4, "Novotel", "ALL - Accor Live Limitless", "Europe", "France")
	ds = add(ds, 1, "Conrad", "Hilton Honors", "Asia", "Japan")
	ds = add(ds, 2, "Hyatt Regency", "World of Hyatt", "North America", "USA")
	return ds
}

func selfTestCases() []SelfTestCase {
	return []SelfTestCase{
		{
			Name:    "europe-premium-classic-business",
			Answers: []string{"1", "2", "3", "1"},
			Expected: []ExpectedEntry{
				{Program: "Marriott Bonvoy", Total: 78, Brands: []string{"Marriott Hotels", "Courtyard"}},
				{Program: "Hilton Honors", Total: 66, Brands: []string{"Hilton", "Hilton Garden Inn"}},
				{Program: "ALL - Accor Live Limitless", Total: 42, Brands: []string{"Novotel"}},
				{Program: "IHG One Rewards", Total: 39, Brands: []string{"Holiday Inn"}},
			},
		},
		{
			Name:     "region-without-hotels",
			Answers:  []string{"4", "1", "1", "1"},
			Expected: []ExpectedEntry{},
		},
	}
}

// SelfTest runs the scoring pipeline over a canned dataset and canned answers
// and compares the final ranking with the known result.
func SelfTest() SelfTestReport {
	report := SelfTestReport{Passed: true}
	cat, err := catalog.Default()
	if err != nil {
		return SelfTestReport{Cases: []SelfTestCase{{Name: "catalog", Error: err.Error()}}}
	}
	m := quiz.NewMachine(cat, selfTestDataset())

	for _, tc := range selfTestCases() {
		tc.Got, err = runCase(m, tc.Answers)
		if err != nil {
			tc.Error = err.Error()
		} else {
			tc.Passed = matches(tc.Expected, tc.Got)
		}
		report.Passed = report.Passed && tc.Passed
		report.Cases = append(report.Cases, tc)
	}
	return report
}

func runCase(m *quiz.Machine, answers []string) ([]scoring.Recommendation, error) {
	st := domain.NewSession("selftest", time.Time{})
	var step quiz.Step
	var err error
	for i, a := range answers {
		st, step, err = m.Advance(st, a)
		if err != nil {
			return nil, fmt.Errorf("answer %d (%q): %w", i+1, a, err)
		}
	}
	if st.Stage != domain.StageDone {
		return nil, fmt.Errorf("quiz not finished, stage %s", st.Stage)
	}
	return step.Result, nil
}

func matches(want []ExpectedEntry, got []scoring.Recommendation) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i].Program != got[i].Program || want[i].Total != got[i].Total {
			return false
		}
		if !reflect.DeepEqual(want[i].Brands, got[i].Brands) {
			return false
		}
	}
	return true
}
