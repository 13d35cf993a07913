package prompt

import (
	"fmt"
	"strings"

	"market-insights-be/pkg/vectorstore"
)

// Input carries every named field the prompt template consumes. Rendering
// works off this struct only; there is no free-form placeholder lookup.
type Input struct {
	ClientName           string
	Industry             string
	Mode                 string
	RAGPercentage        int
	CreativityPercentage int
	Passages             []vectorstore.RankedResult
	Query                string
}

// Builder renders system and user prompts for the generation provider,
// weighting the instructions by the configured RAG/creativity balance.
type Builder struct {
	input Input
}

func NewBuilder(input Input) *Builder {
	return &Builder{input: input}
}

// BuildSystemPrompt renders the mode-dependent system instructions.
func (b *Builder) BuildSystemPrompt() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are the market-insights analyst for %s (%s industry).\n\n",
		orDefault(b.input.ClientName, "the client"), orDefault(b.input.Industry, "general"))

	fmt.Fprintf(&sb, "EVIDENCE BALANCE: %d%% retrieved research + %d%% analyst interpretation.\n\n",
		b.input.RAGPercentage, b.input.CreativityPercentage)

	switch {
	case b.input.RAGPercentage >= 90:
		sb.WriteString("Answer ONLY from the research excerpts provided. ")
		sb.WriteString("Do not add outside knowledge or assumptions. ")
		sb.WriteString("If the excerpts do not cover the question, say so explicitly.\n")
	case b.input.RAGPercentage >= 60:
		sb.WriteString("Ground every claim in the research excerpts first, ")
		sb.WriteString("then complement with strategic interpretation and concrete recommendations. ")
		sb.WriteString("Keep the retrieved findings as the backbone of the answer.\n")
	default:
		sb.WriteString("Use the research excerpts as a starting point and develop ")
		sb.WriteString("an interpretive, strategic analysis around them. ")
		sb.WriteString("Flag clearly which statements are supported by the excerpts and which are analyst judgment.\n")
	}

	sb.WriteString("\nAlways cite the source document for factual claims.")
	return sb.String()
}

// BuildUserPrompt renders the retrieved passages followed by the question.
func (b *Builder) BuildUserPrompt() string {
	var sb strings.Builder

	if len(b.input.Passages) > 0 {
		sb.WriteString("<research_excerpts>\n")
		for _, p := range b.input.Passages {
			name := "Unknown"
			if n, ok := p.Chunk.Metadata.StringValue(vectorstore.MetaDocumentName); ok {
				name = n
			}
			fmt.Fprintf(&sb, "[Document: %s | similarity %.3f]\n%s\n\n", name, p.Score, p.Chunk.Content)
		}
		sb.WriteString("</research_excerpts>\n\n")
	} else {
		sb.WriteString("No research excerpts matched this question. State that the available ")
		sb.WriteString("studies do not cover it before offering any interpretation.\n\n")
	}

	sb.WriteString("<question>\n")
	sb.WriteString(b.input.Query)
	sb.WriteString("\n</question>\n")
	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
