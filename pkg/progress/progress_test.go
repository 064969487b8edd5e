package progress_test

import (
	"fmt"
	"strings"

	"github.com/FAU-CDI/kdict/pkg/progress"
)

func ExampleReader() {
	source := strings.NewReader("artist,company\nAespa,SM\n")
	var builder strings.Builder

	reader := &progress.Reader{
		Reader: source,
		Total:  int64(source.Len()),

		Rewritable: progress.Rewritable{
			FlushInterval: 0,
			Writer:        &builder,
		},
	}

	_, _ = reader.Read(make([]byte, 15))
	_, _ = reader.Read(make([]byte, 15))

	// replace all the '\r's with '\n's for testing
	fmt.Println(strings.ReplaceAll(builder.String(), "\r", "\n"))

	// Output: Read 15 B of 24 B
	// Read 24 B of 24 B
}

func ExampleRewritable() {
	var builder strings.Builder

	rw := progress.Rewritable{Writer: &builder}
	rw.Write("longer line")
	rw.Write("short")

	fmt.Printf("%q\n", builder.String())

	// Output: "\rlonger line\rshort      "
}
