package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"subsync/internal/batch"
)

// newConfirmPrompt builds the confirmation gate for a sync run: it prints
// the working set and the delay model, then reads a y/N answer. Anything
// but an explicit yes declines, including EOF on a closed stdin.
func newConfirmPrompt(out io.Writer, in io.Reader) batch.ConfirmFunc {
	return func(p batch.Preview) (bool, error) {
		fmt.Fprintf(out, "The following files will be synchronised with %g ms delay and growth factor %g:\n\n", p.Model.InitialDelay, p.Model.Growth)

		rows := make([][]string, 0, len(p.Documents))
		for i, doc := range p.Documents {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), doc})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Document"}, rows, 1))

		if !isTerminal(in) {
			fmt.Fprintln(out, "(stdin is not a terminal; reading confirmation from it anyway)")
		}
		fmt.Fprint(out, "\nContinue? [y/N] ")

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		return strings.EqualFold(strings.TrimSpace(line), "y"), nil
	}
}

func isTerminal(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
