package response_models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type TimeSlot string

const (
	TimeMorning   TimeSlot = "morning"
	TimeNoon      TimeSlot = "noon"
	TimeAfternoon TimeSlot = "afternoon"
	TimeEvening   TimeSlot = "evening"
	TimeNight     TimeSlot = "night"
)

var TimeSlots = []string{
	string(TimeMorning), string(TimeNoon), string(TimeAfternoon), string(TimeEvening), string(TimeNight),
}

type Category string

const (
	CategorySight    Category = "sight"
	CategoryFood     Category = "food"
	CategoryShopping Category = "shopping"
	CategoryActivity Category = "activity"
)

var Categories = []string{
	string(CategorySight), string(CategoryFood), string(CategoryShopping), string(CategoryActivity),
}

const StartDateLayout = "2006-01-02"

var (
	ErrPlanMissingCity = errors.New("plan has no city")
	ErrPlanMissingDays = errors.New("plan has no days")
)

type PlanItem struct {
	Time     TimeSlot `json:"time"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Note     string   `json:"note,omitempty"`
}

// UnmarshalJSON also accepts "type" for the category, which older prompts asked for.
func (i *PlanItem) UnmarshalJSON(data []byte) error {
	type plain PlanItem
	var aux struct {
		plain
		Type Category `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = PlanItem(aux.plain)
	if i.Category == "" {
		i.Category = aux.Type
	}
	return nil
}

type PlanDay struct {
	Day   int        `json:"day"`
	Title string     `json:"title,omitempty"`
	Items []PlanItem `json:"items"`
}

// Plan is the structured itinerary produced by the assistant. A new plan always
// replaces the previous one as a whole.
type Plan struct {
	Summary   string    `json:"summary"`
	City      string    `json:"city"`
	StartDate string    `json:"startDate,omitempty"`
	Days      []PlanDay `json:"days"`
}

// Normalize trims free-text fields and lower-cases the enum values.
// Clone copies the plan down to its items so the copy can be normalized on its own.
func (p *Plan) Clone() *Plan {
	out := *p
	out.Days = make([]PlanDay, len(p.Days))
	for i, day := range p.Days {
		day.Items = append([]PlanItem(nil), day.Items...)
		out.Days[i] = day
	}
	return &out
}

func (p *Plan) Normalize() {
	p.Summary = strings.TrimSpace(p.Summary)
	p.City = strings.TrimSpace(p.City)
	p.StartDate = strings.TrimSpace(p.StartDate)
	for i := range p.Days {
		day := &p.Days[i]
		day.Title = strings.TrimSpace(day.Title)
		for j := range day.Items {
			item := &day.Items[j]
			item.Time = TimeSlot(strings.ToLower(strings.TrimSpace(string(item.Time))))
			item.Category = Category(strings.ToLower(strings.TrimSpace(string(item.Category))))
			item.Note = strings.TrimSpace(item.Note)
		}
	}
}

func (p *Plan) Validate() error {
	if p.City == "" {
		return ErrPlanMissingCity
	}
	if len(p.Days) == 0 {
		return ErrPlanMissingDays
	}
	for i, day := range p.Days {
		if day.Day < 1 {
			return fmt.Errorf("day %d has invalid day number %d", i+1, day.Day)
		}
	}
	if p.StartDate != "" {
		if _, ok := p.Start(); !ok {
			return fmt.Errorf("invalid startDate %q (expected YYYY-MM-DD)", p.StartDate)
		}
	}
	return nil
}

func (p *Plan) Start() (time.Time, bool) {
	if p.StartDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(StartDateLayout, p.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
