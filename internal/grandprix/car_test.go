package grandprix

import (
	"testing"
	"time"
)

type entryListValidateTest struct {
	name      string
	entryList EntryList
	wantErr   bool
}

func TestEntryListValidate(t *testing.T) {
	entryListValidateTests := []entryListValidateTest{
		{
			name:      "Empty entry list",
			entryList: EntryList{},
			wantErr:   true,
		},
		{
			name: "Team without drivers",
			entryList: EntryList{
				{Name: "Brabham"},
			},
			wantErr: true,
		},
		{
			name: "More drivers than cars",
			entryList: EntryList{
				{
					Name:    "Tyrrell",
					Drivers: []*Driver{{Name: "A"}, {Name: "B"}},
					Cars:    []*RaceCar{{Number: 3}},
				},
			},
			wantErr: true,
		},
		{
			name: "Duplicate car numbers across teams",
			entryList: EntryList{
				{
					Name:    "Ferrari",
					Drivers: []*Driver{{Name: "A"}},
					Cars:    []*RaceCar{{Number: 27}},
				},
				{
					Name:    "Williams",
					Drivers: []*Driver{{Name: "B"}},
					Cars:    []*RaceCar{{Number: 27}},
				},
			},
			wantErr: true,
		},
		{
			name: "Duplicate driver names",
			entryList: EntryList{
				{
					Name:    "Ferrari",
					Drivers: []*Driver{{Name: "A"}},
					Cars:    []*RaceCar{{Number: 27}},
				},
				{
					Name:    "Williams",
					Drivers: []*Driver{{Name: "A"}},
					Cars:    []*RaceCar{{Number: 28}},
				},
			},
			wantErr: true,
		},
		{
			name: "Valid two team entry",
			entryList: EntryList{
				{
					Name:    "Ferrari",
					Drivers: []*Driver{{Name: "A"}, {Name: "B"}},
					Cars:    []*RaceCar{{Number: 27}, {Number: 28}},
				},
				{
					Name:    "Williams",
					Drivers: []*Driver{{Name: "C"}},
					Cars:    []*RaceCar{{Number: 5}},
				},
			},
			wantErr: false,
		},
	}

	for _, test := range entryListValidateTests {
		t.Run(test.name, func(t *testing.T) {
			err := test.entryList.Validate()

			if test.wantErr && err == nil {
				t.Log("Expected a validation error, got none")
				t.Fail()
			}

			if !test.wantErr && err != nil {
				t.Logf("Expected no validation error, got: %s", err)
				t.Fail()
			}
		})
	}
}

func TestEntryListNumDrivers(t *testing.T) {
	entryList := EntryList{
		{
			Name:    "McLaren",
			Drivers: []*Driver{{Name: "A"}, {Name: "B"}},
			Cars:    []*RaceCar{{Number: 7}, {Number: 8}},
		},
		{
			Name:    "Lotus",
			Drivers: []*Driver{{Name: "C"}},
			Cars:    []*RaceCar{{Number: 12}},
		},
	}

	if n := entryList.NumDrivers(); n != 3 {
		t.Logf("Expected 3 drivers, got: %d", n)
		t.Fail()
	}
}

func TestCompleteLap(t *testing.T) {
	car := &RaceCar{Number: 9}

	first := car.CompleteLap("Mark Webber", 80*time.Second)
	second := car.CompleteLap("Mark Webber", 95*time.Second)

	if first.Number != 1 || second.Number != 2 {
		t.Logf("Expected lap numbers 1 and 2, got: %d and %d", first.Number, second.Number)
		t.Fail()
	}

	if car.LapCount != 2 || len(car.LapHistory) != 2 {
		t.Logf("Expected two laps in the history, got count: %d, history: %d", car.LapCount, len(car.LapHistory))
		t.Fail()
	}

	if car.LapHistory[1].Time != 95*time.Second {
		t.Logf("Expected second lap of 95s, got: %s", car.LapHistory[1].Time)
		t.Fail()
	}
}
