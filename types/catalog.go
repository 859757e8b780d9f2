package types

const (
	DefaultModel       = "flux-pro"
	DefaultAspectRatio = "1:1"
)

// Models lists the generation models the server accepts, in form order.
var Models = []string{
	"flux-pro",
	"flux-1.1-pro-ultra",
	"flux-1.1-pro",
	"flux-schnell-lora",
}

type AspectRatio struct {
	Ratio  string
	Width  int
	Height int
}

var AspectRatios = []AspectRatio{
	{Ratio: "1:1", Width: 1024, Height: 1024},
	{Ratio: "4:3", Width: 1024, Height: 768},
	{Ratio: "16:9", Width: 1024, Height: 576},
	{Ratio: "21:9", Width: 1024, Height: 439},
}

func IsModel(name string) bool {
	for _, m := range Models {
		if m == name {
			return true
		}
	}
	return false
}

func LookupAspectRatio(ratio string) (AspectRatio, bool) {
	for _, ar := range AspectRatios {
		if ar.Ratio == ratio {
			return ar, true
		}
	}
	return AspectRatio{}, false
}

// Next returns the value after current in values, wrapping around.
// Unknown values restart at the first entry.
func Next(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func RatioNames() []string {
	out := make([]string, 0, len(AspectRatios))
	for _, ar := range AspectRatios {
		out = append(out, ar.Ratio)
	}
	return out
}
