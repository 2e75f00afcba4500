package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModuleList(t *testing.T) {
	output := "Biblical Texts:\n" +
		"  KJV : King James Version\n" +
		"  DutSVV : Dutch Staten Vertaling\n" +
		"\n" +
		"Commentaries:\n" +
		"  MHC : Matthew Henry Commentary\n" +
		"stray line without separator\n"

	modules := parseModuleList(output)
	require.Len(t, modules, 3)
	assert.Equal(t, ModuleInfo{Name: "KJV", Description: "King James Version", Kind: KindBible}, modules[0])
	assert.Equal(t, ModuleInfo{Name: "DutSVV", Description: "Dutch Staten Vertaling", Kind: KindBible}, modules[1])
	assert.Equal(t, ModuleInfo{Name: "MHC", Description: "Matthew Henry Commentary", Kind: KindCommentary}, modules[2])

	assert.Empty(t, parseModuleList(""))
}

func TestFilterKind(t *testing.T) {
	modules := []ModuleInfo{
		{Name: "KJV", Kind: KindBible},
		{Name: "MHC", Kind: KindCommentary},
		{Name: "DutSVV", Kind: KindBible},
	}

	bibles := FilterKind(modules, KindBible)
	require.Len(t, bibles, 2)
	assert.Equal(t, "KJV", bibles[0].Name)
	assert.Equal(t, "DutSVV", bibles[1].Name)

	assert.Empty(t, FilterKind(modules, "Lexicons / Dictionaries"))
}

func TestFakeModules(t *testing.T) {
	fake := NewFake()
	scripted := []ModuleInfo{{Name: "KJV", Kind: KindBible}}
	fake.SetModules(scripted)

	got, err := fake.Modules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scripted, got)

	fake.FailModules(assert.AnError)
	_, err = fake.Modules(context.Background())
	assert.Error(t, err)
}

func TestDiathekeModulesUnavailableBinary(t *testing.T) {
	p := NewDiatheke(WithBinary("no-such-binary-for-testing"))
	_, err := p.Modules(context.Background())
	require.Error(t, err)
	assert.Equal(t, ProcessFailure, KindOf(err))
}
