package buffered_test

import (
	"fmt"

	"github.com/teenjuna/buffered"
	"github.com/teenjuna/buffered/packager/separator"
)

func ExampleBuffer() {
	buffer := buffered.New[int]()
	buffer.PutMany(1, 2, 3, 4, 5)
	fmt.Println(buffer)

	item, _ := buffer.Get()
	fmt.Println(item)
	fmt.Println(buffer)

	item, _ = buffer.GetAt(-1)
	fmt.Println(item)
	fmt.Println(buffer)
	// Output:
	// Buffer(1 ... 5, len=5/4096)
	// 1
	// Buffer(2 ... 5, len=4/4096)
	// 5
	// Buffer(2 ... 4, len=3/4096)
}

func ExamplePackagedBuffer() {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]int]) {
		c.Packager(separator.New("|", ";"))
	})
	buffer.Put([]int{1, 2, 3})
	buffer.Put([]int{4, 5, 6})
	buffer.Put([]int{7, 8, 9})
	fmt.Println(buffer)

	item, _ := buffer.Get()
	fmt.Println(item)
	fmt.Println(buffer)

	item, _ = buffer.GetAt(-1)
	fmt.Println(item)
	fmt.Println(buffer)

	packed, _ := buffer.DumpPacked(0)
	fmt.Printf("%q\n", packed)
	fmt.Println(buffer)
	// Output:
	// PackagedBuffer([1 2 3] ... [7 8 9], len=3/4096)
	// [1 2 3]
	// PackagedBuffer([4 5 6] ... [7 8 9], len=2/4096)
	// [7 8 9]
	// PackagedBuffer([4 5 6] ... [4 5 6], len=1/4096)
	// ["4;5;6|\n"]
	// PackagedBuffer(<nil> ... <nil>, len=0/4096)
}
