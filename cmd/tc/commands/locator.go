package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// NewLocatorCommand creates the locator command.
func NewLocatorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locator [key=value ...]",
		Short: "Print a compiled locator",
		Long: `Compile key=value pairs into a TeamCity locator string.

Dotted keys nest, so "buildType.id=Proj_Build count=5" compiles to
"buildType:(id:Proj_Build),count:5".`,
		Example: "tc locator buildType.id=Proj_Build branch.name=main defaultFilter=false",
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := ParseLocatorPairs(args)
			if err != nil {
				return err
			}

			compiled, err := locator.Compile()
			if err != nil {
				return fmt.Errorf("compiling locator: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), compiled)

			return err
		},
	}
}

// ParseLocatorPairs builds a locator from key=value pairs in argument order.
// A dotted key such as "snapshotDependency.to.id" addresses a nested locator.
func ParseLocatorPairs(pairs []string) (tcapi.Locator, error) {
	return AppendLocatorPairs(tcapi.Locator{}, pairs)
}

// AppendLocatorPairs adds key=value pairs to locator. Dotted keys extend a
// nested locator already present under the same key.
func AppendLocatorPairs(locator tcapi.Locator, pairs []string) (tcapi.Locator, error) {
	var err error

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidLocatorPair, pair)
		}

		path := strings.Split(key, ".")
		for _, segment := range path {
			if segment == "" {
				return nil, fmt.Errorf("%w: %q", constants.ErrInvalidLocatorPair, pair)
			}
		}

		locator, err = setLocatorPath(locator, path, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", constants.ErrInvalidLocatorPair, pair, err)
		}
	}

	return locator, nil
}

// setLocatorPath adds value at path. A key holds either scalar values or a
// single nested locator, never both.
func setLocatorPath(locator tcapi.Locator, path []string, value string) (tcapi.Locator, error) {
	key := path[0]

	for i, field := range locator {
		if field.Key != key {
			continue
		}

		nested, isNested := field.Value.(tcapi.Locator)

		if len(path) == 1 {
			if isNested {
				return nil, fmt.Errorf("%w: %s", constants.ErrLocatorKeyNested, key)
			}

			continue
		}

		if !isNested {
			return nil, fmt.Errorf("%w: %s", constants.ErrLocatorKeyScalar, key)
		}

		child, err := setLocatorPath(nested, path[1:], value)
		if err != nil {
			return nil, err
		}

		updated := make(tcapi.Locator, len(locator))
		copy(updated, locator)
		updated[i] = tcapi.Field{Key: key, Value: child}

		return updated, nil
	}

	if len(path) == 1 {
		return locator.With(key, value), nil
	}

	child, err := setLocatorPath(tcapi.Locator{}, path[1:], value)
	if err != nil {
		return nil, err
	}

	return locator.With(key, child), nil
}
