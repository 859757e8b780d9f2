package gallery

import "strconv"

type ControlKind int

const (
	ControlPrev ControlKind = iota
	ControlPage
	ControlNext
)

// PageControl is one entry of the pagination bar.
type PageControl struct {
	Kind     ControlKind
	Page     int
	Label    string
	Active   bool
	Disabled bool
}

// BuildPagination renders prev, 1..total and next for the given page.
func BuildPagination(current, total int) []PageControl {
	if total < 1 {
		total = 1
	}

	controls := make([]PageControl, 0, total+2)
	controls = append(controls, PageControl{
		Kind:     ControlPrev,
		Page:     current - 1,
		Label:    "‹",
		Disabled: current <= 1,
	})
	for i := 1; i <= total; i++ {
		controls = append(controls, PageControl{
			Kind:   ControlPage,
			Page:   i,
			Label:  strconv.Itoa(i),
			Active: i == current,
		})
	}
	controls = append(controls, PageControl{
		Kind:     ControlNext,
		Page:     current + 1,
		Label:    "›",
		Disabled: current >= total,
	})
	return controls
}
