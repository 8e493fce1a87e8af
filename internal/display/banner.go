package display

import (
	"fmt"
	"os"

	"github.com/xoChrisCo/video-toolbox/internal/term"
)

// PrintBanner prints the ASCII art banner; magenta when colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `__     ___     _            _____           _ _
\ \   / (_) __| | ___  ___ |_   _|__   ___ | | |__   _____  __
 \ \ / /| |/ _`+"`"+` |/ _ \/ _ \  | |/ _ \ / _ \| | '_ \ / _ \ \/ /
  \ V / | | (_| |  __/ (_) | | | (_) | (_) | | |_) | (_) >  <
   \_/  |_|\__,_|\___|\___/  |_|\___/ \___/|_|_.__/ \___/_/\_\
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
