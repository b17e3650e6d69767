package typegen

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/macropower/crdtypes/pkg/analyzer"
	"github.com/macropower/crdtypes/pkg/catalog"
	"github.com/macropower/crdtypes/pkg/crd"
	"github.com/macropower/crdtypes/pkg/overrides"
	"github.com/macropower/crdtypes/pkg/schema"
)

// Traits every generated type derives.
var baseDerives = []string{"Serialize", "Deserialize", "Clone", "Debug"}

// TraitCustomResource is derived by the spec type.
const TraitCustomResource = "CustomResource"

// TraitTypedBuilder is derived by structs when builders are enabled.
const TraitTypedBuilder = "TypedBuilder"

// Options configure generation.
type Options struct {
	// Overrides are applied during analysis.
	Overrides *overrides.Overrides
	// APIVersion selects the CRD version. Empty selects the version with
	// the highest priority.
	APIVersion string
	// MapType is the representation of generated maps.
	MapType catalog.MapType
	// Derives are additional traits to derive.
	Derives []Derive
	// Elide lists type names to leave out of the output. Names are matched
	// before spec trimming, e.g. WidgetSpecTemplate rather than WidgetTemplate.
	Elide []string
	// Relaxed degrades ambiguous schemas to opaque maps.
	Relaxed bool
	// NoCondition disables detection of standard conditions.
	NoCondition bool
	// NoObjectReference disables detection of object references.
	NoObjectReference bool
	// Builders adds builder derives and member builder hints.
	Builders bool
	// SmartDeriveElision drops Default from types that cannot default.
	SmartDeriveElision bool
}

// Generate runs the pipeline for one CRD.
func Generate(def *apiextensionsv1.CustomResourceDefinition, opts Options) (*Output, error) {
	v, err := crd.FindVersion(def, opts.APIVersion)
	if err != nil {
		return nil, err //nolint:wrapcheck // already names the CRD
	}

	node, err := crd.Schema(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Name, err)
	}

	out, err := generate(node, def.Spec.Names.Kind, crd.HasStatusSubresource(v), opts)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", def.Name, v.Name, err)
	}

	out.Group = def.Spec.Group
	out.Version = v.Name
	out.Plural = def.Spec.Names.Plural
	out.Scope = string(def.Spec.Scope)

	return out, nil
}

// FromSchema runs the pipeline for a bare schema describing kind. The
// resource metadata of the returned [Output] is left empty, except Kind.
func FromSchema(node *schema.Node, kind string, opts Options) (*Output, error) {
	out, err := generate(node, kind, false, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	return out, nil
}

func generate(node *schema.Node, kind string, statusSubresource bool, opts Options) (*Output, error) {
	kindName := catalog.UpperCamel(kind)

	cat, err := analyzer.Analyze(node, kindName, analyzer.Config{
		Overrides:                       opts.Overrides,
		MapType:                         opts.MapType,
		DisableConditionDetection:       opts.NoCondition,
		DisableObjectReferenceDetection: opts.NoObjectReference,
		Relaxed:                         opts.Relaxed,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by callers
	}

	if err := cat.Rename(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by callers
	}

	if opts.Builders {
		cat.BuilderHints()
	}

	if err := cat.VerifyAcyclic(); err != nil {
		slog.Warn("generated types reference each other",
			slog.String("kind", kind),
			slog.Any("err", err),
		)
	}

	out := &Output{Kind: kind, Types: []Type{}}

	_, hasStatusProperty := node.Properties["status"]
	if (statusSubresource || hasStatusProperty) && cat.HasStatusResource() {
		out.Status = kindName + "Status"
	}

	g := &generator{opts: opts, cat: cat, memo: catalog.NewDeriveMemo(), kind: kindName}

	containers := cat.Containers()
	for i := range containers {
		c := &containers[i]
		if c.IsRoot() {
			continue
		}

		if slices.Contains(opts.Elide, c.Name) {
			slog.Debug("eliding type", slog.String("name", c.Name))

			continue
		}

		out.Types = append(out.Types, g.typeOf(c))
	}

	out.Imports = imports(containers)

	return out, nil
}

// GenerateAll runs [Generate] for every CRD concurrently. Outputs are
// returned in input order. The first failure cancels the remaining work.
func GenerateAll(ctx context.Context, crds []*apiextensionsv1.CustomResourceDefinition, opts Options) ([]*Output, error) {
	outputs := make([]*Output, len(crds))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range crds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			out, err := Generate(c, opts)
			if err != nil {
				return err
			}

			outputs[i] = out

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return outputs, nil
}

type generator struct {
	cat  *catalog.Catalog
	memo *catalog.DeriveMemo
	kind string
	opts Options
}

func (g *generator) typeOf(c *catalog.Container) Type {
	t := Type{
		Name:    c.Name,
		Docs:    c.Docs,
		Level:   c.Level,
		Enum:    c.IsEnum,
		Main:    c.IsMainContainer(),
		Derives: g.derives(c),
	}

	if !t.Main {
		t.Name = g.trimSpec(c.Name)
	}

	for _, m := range c.Members {
		rename := ""
		if m.Rename != nil {
			rename = *m.Rename
		}

		if c.IsEnum {
			t.Variants = append(t.Variants, Variant{Name: m.Name, Rename: rename, Docs: m.Docs})

			continue
		}

		t.Fields = append(t.Fields, Field{
			Name:     m.Name,
			Rename:   rename,
			Type:     g.typeName(m.Type),
			Docs:     m.Docs,
			Builder:  string(m.Builder),
			Required: m.Required,
		})
	}

	return t
}

func (g *generator) derives(c *catalog.Container) []string {
	derives := slices.Clone(baseDerives)

	if c.IsMainContainer() {
		derives = slices.Insert(derives, 0, TraitCustomResource)
	}

	if g.opts.Builders && !c.IsEnum {
		derives = append(derives, TraitTypedBuilder)
	}

	for _, d := range g.opts.Derives {
		if d.Trait == TraitDefault {
			if c.IsEnum || (g.opts.SmartDeriveElision && !g.cat.CanDeriveDefault(c.Name, g.memo)) {
				continue
			}
		}

		if d.AppliesTo(c) && !slices.Contains(derives, d.Trait) {
			derives = append(derives, d.Trait)
		}
	}

	return derives
}

// trimSpec shortens names below the spec type, so that <Kind>SpecFoo
// becomes <Kind>Foo.
func (g *generator) trimSpec(name string) string {
	return strings.ReplaceAll(name, g.kind+"Spec", g.kind)
}

func (g *generator) typeName(t catalog.TypeRef) string {
	return g.rewrite(t).String()
}

func (g *generator) rewrite(t catalog.TypeRef) catalog.TypeRef {
	if t.Kind == catalog.KindReference {
		return catalog.Reference(g.trimSpec(t.Name))
	}

	if t.Elem != nil {
		elem := g.rewrite(*t.Elem)
		t.Elem = &elem
	}

	return t
}
