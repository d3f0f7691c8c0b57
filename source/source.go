// Package source builds the fop.Fop input channels that feed a
// pipeline.
package source

import "github.com/file-or-pattern/fop/fop"

// FromArgs turns a slice of file-or-pattern arguments (typically a
// CLI's positional args) into a closed, pre-filled channel of fops, one
// per argument, in argument order.
func FromArgs(args []string) <-chan fop.Fop {
	ch := make(chan fop.Fop, len(args))
	for _, a := range args {
		ch <- fop.Fop{FileOrPattern: a}
	}
	close(ch)
	return ch
}
