package autoxliff

import (
	"context"
	"errors"
	"fmt"
)

// invalidLocaleCode identifies view errors caused by an unusable locale.
const invalidLocaleCode = 1279815885

type packageKey struct{}

// WithPackage returns a context that carries the package of the view being
// rendered.
func WithPackage(ctx context.Context, pkg string) context.Context {
	return context.WithValue(ctx, packageKey{}, pkg)
}

// PackageFromContext returns the package stored by WithPackage.
func PackageFromContext(ctx context.Context) (string, bool) {
	pkg, ok := ctx.Value(packageKey{}).(string)
	return pkg, ok && pkg != ""
}

// ViewRequest is a label rendered by a template.
type ViewRequest struct {
	ID        string
	Value     string        // Label text; "" means absent and Children is rendered
	Children  func() string // Renders the element body
	Arguments []any
	Source    string
	Package   string // Defaults to PackageFromContext
	Quantity  *int
	Locale    string
}

// RenderLabel translates a template label. The label is vr.Value, or the
// rendered children when Value is empty; an empty value cannot be asked for
// explicitly. A label that cannot be found is rendered untranslated; an
// invalid locale is reported as a *ViewError.
func (i *Interceptor) RenderLabel(ctx context.Context, vr ViewRequest) (string, error) {
	pkg := vr.Package
	if pkg == "" {
		pkg, _ = PackageFromContext(ctx)
	}

	label := vr.Value
	if label == "" && vr.Children != nil {
		label = vr.Children()
	}

	text, err := i.Translate(ctx, LookupRequest{
		ID:        vr.ID,
		Label:     label,
		Arguments: vr.Arguments,
		Quantity:  vr.Quantity,
		Locale:    vr.Locale,
		Package:   pkg,
		Source:    vr.Source,
	})
	if err == nil {
		return text, nil
	}

	var invalid *InvalidLocaleError
	if errors.As(err, &invalid) {
		return "", &ViewError{
			Message: fmt.Sprintf("%q is not a valid locale identifier.", invalid.Locale),
			Code:    invalidLocaleCode,
			Cause:   err,
		}
	}
	if IsMiss(err) {
		return label, nil
	}
	return "", err
}
