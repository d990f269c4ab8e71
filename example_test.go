package denyset_test

import (
	"fmt"

	"github.com/hupe1980/denyset"
	"github.com/hupe1980/denyset/core"
)

func ExampleNew() {
	dl, err := denyset.New([]core.ID{0x9C, 0x2F, 0x30, 0x31})
	if err != nil {
		panic(err)
	}

	fmt.Println(dl.Intervals())
	fmt.Println(dl.Contains(0x30), dl.Contains(0x32))
	// Output:
	// [[0x2f, 0x31] [0x9c]]
	// true false
}
