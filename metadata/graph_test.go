package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGraph = `{
	"3": {
		"inputs": {
			"seed": 156680208700286,
			"steps": 20,
			"cfg": 8,
			"sampler_name": "euler",
			"model": ["4", 0],
			"positive": ["6", 0],
			"negative": ["7", 0]
		},
		"class_type": "KSampler"
	},
	"4": {
		"inputs": {"ckpt_name": "v1-5-pruned-emaonly.safetensors"},
		"class_type": "CheckpointLoaderSimple"
	},
	"6": {
		"inputs": {"text": "beautiful scenery, glass bottle", "clip": ["4", 1]},
		"class_type": "CLIPTextEncode"
	},
	"7": {
		"inputs": {"text": "text, watermark", "clip": ["4", 1]},
		"class_type": "CLIPTextEncode"
	}
}`

func TestParseGraphJSON_PromptsAndInputs(t *testing.T) {
	m, err := ParseGraphJSON(sampleGraph)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Prompt", "Negative prompt",
		"seed", "steps", "cfg", "sampler_name", "model", "positive", "negative", "ckpt_name",
	}, m.Keys())
	assert.Equal(t, "beautiful scenery, glass bottle", m.Value(FieldPrompt))
	assert.Equal(t, "text, watermark", m.Value(FieldNegativePrompt))
	assert.Equal(t, "156680208700286", m.Value("seed"))
	assert.Equal(t, "euler", m.Value("sampler_name"))
	assert.Equal(t, `["4", 0]`, m.Value("model"))
	assert.False(t, m.Has("clip"))
}

func TestParseGraphJSON_SerializedOrderDecidesRoles(t *testing.T) {
	// node ids deliberately out of numeric order
	graph := `{
		"9": {"class_type": "CLIPTextEncode", "inputs": {"text": "first"}},
		"2": {"class_type": "CLIPTextEncode", "inputs": {"text": "second"}}
	}`
	m, err := ParseGraphJSON(graph)
	require.NoError(t, err)

	assert.Equal(t, "first", m.Value(FieldPrompt))
	assert.Equal(t, "second", m.Value(FieldNegativePrompt))
}

func TestParseGraphJSON_ThirdEncoderDropped(t *testing.T) {
	graph := `{
		"1": {"class_type": "CLIPTextEncode", "inputs": {"text": "a"}},
		"2": {"class_type": "CLIPTextEncode", "inputs": {"text": "b"}},
		"3": {"class_type": "CLIPTextEncode", "inputs": {"text": "c"}}
	}`
	m, err := ParseGraphJSON(graph)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "a", m.Value(FieldPrompt))
	assert.Equal(t, "b", m.Value(FieldNegativePrompt))
}

func TestParseGraphJSON_LaterNodeOverwrites(t *testing.T) {
	graph := `{
		"1": {"class_type": "KSampler", "inputs": {"seed": 1, "steps": 10}},
		"2": {"class_type": "KSampler", "inputs": {"seed": 2}}
	}`
	m, err := ParseGraphJSON(graph)
	require.NoError(t, err)

	assert.Equal(t, []string{"seed", "steps"}, m.Keys())
	assert.Equal(t, "2", m.Value("seed"))
	assert.False(t, m.Has(FieldPrompt))
}

func TestParseGraphJSON_PromptNamesReservedForEncoders(t *testing.T) {
	graph := `{
		"1": {"inputs": {"text": "a cat"}, "class_type": "CLIPTextEncode"},
		"2": {"inputs": {"Prompt": "from a custom node", "Negative prompt": "x", "seed": 7}, "class_type": "PromptLoader"}
	}`
	m, err := ParseGraphJSON(graph)
	require.NoError(t, err)
	assert.Equal(t, "a cat", m.Value(FieldPrompt))
	assert.False(t, m.Has(FieldNegativePrompt))
	assert.Equal(t, []string{FieldPrompt, "seed"}, m.Keys())
}

func TestGraphParser_CustomEncoderClass(t *testing.T) {
	graph := `{
		"1": {"class_type": "CLIPTextEncodeSDXL", "inputs": {"text": "sdxl prompt"}},
		"2": {"class_type": "CLIPTextEncode", "inputs": {"text": "ignored as encoder"}}
	}`
	m, err := NewGraphParser("CLIPTextEncodeSDXL").Parse(graph)
	require.NoError(t, err)

	assert.Equal(t, "sdxl prompt", m.Value(FieldPrompt))
	assert.False(t, m.Has(FieldNegativePrompt))
	assert.Equal(t, "ignored as encoder", m.Value("text"))
}

func TestParseGraphJSON_Invalid(t *testing.T) {
	for _, data := range []string{"", "not json", "[1,2,3]", `{"1": `} {
		_, err := ParseGraphJSON(data)
		assert.True(t, errors.Is(err, ErrInvalidGraph), "data %q", data)
	}
}

func TestDecodeGraph_Nodes(t *testing.T) {
	nodes, err := DecodeGraph(sampleGraph)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Equal(t, "3", nodes[0].ID)
	assert.Equal(t, "KSampler", nodes[0].ClassType)
	assert.Equal(t, "20", nodes[0].Input("steps").Raw)
	assert.Nil(t, nodes[0].Input("missing"))
	assert.Equal(t, "CLIPTextEncode", nodes[3].ClassType)
}
