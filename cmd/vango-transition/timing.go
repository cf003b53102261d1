package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

func timingCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "timing <class>...",
		Short: "Show the transition timing a class list implies",
		Long: `Resolve the transition duration and delay of an element with the given
classes and inline style, the same way the in-memory document does.

Examples:
  vango-transition timing transition duration-300 delay-75
  vango-transition timing fade --style "transition-duration: 0.2s, 0.5s"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			classes := transition.SplitClasses(strings.Join(args, " "))
			attrs := []any{vdom.Class(classes...)}
			if style != "" {
				attrs = append(attrs, vdom.StyleAttr(style))
			}
			node := vdom.Div(attrs...)

			t := dom.ResolveTiming(node)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "  duration: %s\n", t.Duration)
			fmt.Fprintf(w, "  delay:    %s\n", t.Delay)
			fmt.Fprintf(w, "  total:    %s\n", transition.TotalDuration(t))
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Inline style of the element")

	return cmd
}
