package log

import (
	"context"
	"encoding/json"
)

// PrintArray prints arr as a JSON array when asJSON is set, and one rendered
// row per item otherwise.
func PrintArray[K any](ctx context.Context, asJSON bool, arr []K, render func(K) string) {
	l := From(ctx)

	if asJSON {
		if arr == nil {
			arr = []K{}
		}
		data, _ := json.Marshal(arr)
		l.PrintlnUnstyled(string(data))
		return
	}

	if len(arr) == 0 {
		l.Println("NO RESULTS")
		return
	}

	for _, item := range arr {
		l.PrintlnUnstyled(render(item))
	}
}
