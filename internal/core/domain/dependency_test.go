package domain_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/core/domain"
)

func cppKinds() domain.SourceKinds {
	return domain.SourceKindsFor(domain.PlatformLinux, domain.BinaryStaticLibrary)
}

func TestParseCompileDependency(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    domain.CompileDependency
		valid   bool
	}{
		{
			name: "clang listing with continuations",
			content: "Intermediate/Core/Objects/main.o: Core/Sources/main.cpp \\\n" +
				"  Core/Sources/main.h \\\n" +
				"  Core/Sources/util.hpp\n",
			want: domain.CompileDependency{
				ObjectFile: "Intermediate/Core/Objects/main.o",
				SourceFile: "Core/Sources/main.cpp",
				Headers:    []string{"Core/Sources/main.h", "Core/Sources/util.hpp"},
			},
			valid: true,
		},
		{
			name:    "crlf line endings",
			content: "a.o: a.c \\\r\n  a.h\r\n",
			want: domain.CompileDependency{
				ObjectFile: "a.o",
				SourceFile: "a.c",
				Headers:    []string{"a.h"},
			},
			valid: true,
		},
		{
			name:    "escaped spaces",
			content: `My\ Game/a.o: My\ Game/a.cpp My\ Game/a\ b.h`,
			want: domain.CompileDependency{
				ObjectFile: "My Game/a.o",
				SourceFile: "My Game/a.cpp",
				Headers:    []string{"My Game/a b.h"},
			},
			valid: true,
		},
		{
			name:    "phony header targets are collapsed",
			content: "a.o: a.cc a.h b.hh\n\na.h:\n\nb.hh:\n",
			want: domain.CompileDependency{
				ObjectFile: "a.o",
				SourceFile: "a.cc",
				Headers:    []string{"a.h", "b.hh"},
			},
			valid: true,
		},
		{
			name:    "extensionless system headers are ignored",
			content: "a.o: a.cpp /usr/include/c++/13/vector a.h",
			want: domain.CompileDependency{
				ObjectFile: "a.o",
				SourceFile: "a.cpp",
				Headers:    []string{"a.h"},
			},
			valid: true,
		},
		{
			name:    "missing object",
			content: "a.cpp a.h",
			want: domain.CompileDependency{
				SourceFile: "a.cpp",
				Headers:    []string{"a.h"},
			},
		},
		{
			name:    "empty listing",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ParseCompileDependency(tt.content, ".o", cppKinds())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, got.Valid())
		})
	}
}

func TestCompileDependency_WriteTo(t *testing.T) {
	tests := []struct {
		name string
		dep  domain.CompileDependency
	}{
		{
			name: "depfile_headers",
			dep: domain.CompileDependency{
				ObjectFile: "Intermediate/Linux/Debug/Core/Objects/main.o",
				SourceFile: "Core/Sources/main.cpp",
				Headers:    []string{"Core/Sources/main.h", "Core/Sources/util.hpp"},
			},
		},
		{
			name: "depfile_no_headers",
			dep: domain.CompileDependency{
				ObjectFile: "main.o",
				SourceFile: "main.cpp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := tt.dep.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestCompileDependency_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		dep  domain.CompileDependency
	}{
		{
			name: "plain and spaced paths",
			dep: domain.CompileDependency{
				ObjectFile: "/tmp/build dir/Objects/render.o",
				SourceFile: "/src/Render/render.cpp",
				Headers: []string{
					"/src/Render/render.h",
					"/src/Core/math.hpp",
					"/src/Core/types.h",
				},
			},
		},
		{
			name: "make metacharacters",
			dep: domain.CompileDependency{
				ObjectFile: "/tmp/obj/$(arch)/main.o",
				SourceFile: "/src/App/main #1.cpp",
				Headers: []string{
					"/p/x$$y.h",
					"/p/price$.h",
					"/p/issue#42/fix.h",
					"/p/tab\tname.h",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ParseCompileDependency(tt.dep.String(), ".o", cppKinds())

			require.True(t, got.Valid())
			assert.Equal(t, tt.dep.ObjectFile, got.ObjectFile)
			assert.Equal(t, tt.dep.SourceFile, got.SourceFile)
			assert.Equal(t, tt.dep.Headers, got.Headers)
		})
	}
}
