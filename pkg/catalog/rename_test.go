package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/crdtypes/pkg/catalog"
)

func members(typ catalog.TypeRef, names ...string) []catalog.Member {
	ms := make([]catalog.Member, 0, len(names))
	for _, n := range names {
		ms = append(ms, catalog.Member{Name: n, Type: typ})
	}

	return ms
}

func names(c catalog.Container) []string {
	out := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		out = append(out, m.Name)
	}

	return out
}

func TestRenameCollisions(t *testing.T) {
	t.Parallel()

	enum := catalog.Container{
		Name:   "EndpointRelabelingsAction",
		Level:  1,
		IsEnum: true,
		Members: members(catalog.NoType(),
			"replace", "Replace", "hashmod", "HashMod",
			"jwks_uri", "jwks-uri", "jwksUri", "JwksUri",
		),
	}
	require.NoError(t, enum.Rename())
	assert.Equal(t, []string{
		"Replace", "ReplaceX", "Hashmod", "HashMod",
		"JwksUri", "JwksUriX", "JwksUriXX", "JwksUriXXX",
	}, names(enum))

	fields := catalog.Container{
		Name:    "FakeStruct",
		Level:   1,
		Members: members(catalog.PrimitiveOf(catalog.U32), "jwks_uri", "jwks-uri", "jwksUri", "JwksUri"),
	}
	require.NoError(t, fields.Rename())
	assert.Equal(t, []string{"jwks_uri", "jwks_uri_x", "jwks_uri_x_x", "jwks_uri_x_x_x"}, names(fields))

	assert.Nil(t, fields.Members[0].Rename)
	assert.Equal(t, "jwks-uri", fields.Members[1].WireName())
	assert.Equal(t, "jwksUri", fields.Members[2].WireName())
	assert.Equal(t, "JwksUri", fields.Members[3].WireName())
}

func TestRenameVariants(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"already camel": {input: "Exists", want: "Exists"},
		"lower":         {input: "mod", want: "Mod"},
		"empty":         {input: "", want: catalog.EmptyVariant},
		"dash":          {input: "-", want: catalog.DashVariant},
		"underscore":    {input: "_", want: catalog.UnderscoreVariant},
		"digits":        {input: "301", want: "_301"},
		"reserved":      {input: "self", want: "Self_"},
		"symbols only":  {input: "!=", want: "Variant0"},
		"dotted":        {input: "v1.beta", want: "V1Beta"},
		"acronym":       {input: "HTTPRoute", want: "HttpRoute"},
		"acronym tcp":   {input: "TCPSocket", want: "TcpSocket"},
		"acronym ip":    {input: "IPAddress", want: "IpAddress"},
		"acronym digit": {input: "IPv4Address", want: "IPv4Address"},
		"version":       {input: "v1beta1", want: "V1Beta1"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := catalog.Container{Name: "E", IsEnum: true, Members: members(catalog.NoType(), tc.input)}
			require.NoError(t, c.Rename())
			assert.Equal(t, tc.want, c.Members[0].Name)
			assert.Equal(t, tc.input, c.Members[0].WireName())
			assert.Equal(t, tc.want != tc.input, c.Members[0].Rename != nil)
		})
	}
}

func TestRenameFields(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
		err   error
	}{
		"camel":      {input: "apiVersion", want: "api_version"},
		"kebab":      {input: "x-kubernetes", want: "x_kubernetes"},
		"reserved":   {input: "type", want: "type_"},
		"prefixed":   {input: "@type", want: "type_"},
		"dollar":     {input: "$ref", want: "ref_"},
		"empty":      {input: "", want: catalog.EmptyField},
		"dash":       {input: "-", want: catalog.DashField},
		"underscore": {input: "_", want: catalog.UnderscoreField},
		"digits":     {input: "42", want: "_42"},
		"acronym":    {input: "HTTPRoute", want: "http_route"},
		"acronym ip": {input: "IPAddress", want: "ip_address"},
		"symbols":    {input: "!=", err: catalog.ErrInvalidIdentifier},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := catalog.Container{Name: "S", Members: members(catalog.PrimitiveOf(catalog.String), tc.input)}

			err := c.Rename()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Members[0].Name)
			assert.Equal(t, tc.input, c.Members[0].WireName())
		})
	}
}

func TestRenameIdempotent(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	cat.Add(catalog.Container{Name: "S", Members: members(catalog.PrimitiveOf(catalog.String), "fooBar", "foo-bar")})

	require.NoError(t, cat.Rename())
	first, _ := cat.Get("S")

	require.NoError(t, cat.Rename())
	second, _ := cat.Get("S")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"foo_bar", "foo_bar_x"}, names(second))
}

func TestUpperCamel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"lower":        {input: "template", want: "Template"},
		"camel":        {input: "jwksUri", want: "JwksUri"},
		"acronym":      {input: "HTTPRoute", want: "HttpRoute"},
		"acronym tail": {input: "podIP", want: "PodIp"},
		"folded":       {input: "ipaddress", want: "Ipaddress"},
		"split":        {input: "IPAddress", want: "IpAddress"},
		"kebab":        {input: "x-kubernetes", want: "XKubernetes"},
		"slash":        {input: "a/b", want: "AB"},
		"version":      {input: "v1beta1", want: "V1Beta1"},
		"empty":        {input: "", want: ""},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, catalog.UpperCamel(tc.input))
		})
	}
}
