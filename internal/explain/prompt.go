package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/aptiz/internal/sampler"
)

const systemPrompt = `You are a concise aptitude test coach. You help candidates preparing for quantitative, logical and verbal reasoning tests understand multiple-choice questions.`

func writeQuestion(b *strings.Builder, item sampler.SampledItem) {
	fmt.Fprintf(b, "Topic: %s\n", item.Topic)
	fmt.Fprintf(b, "Difficulty: %s\n", item.Difficulty)
	fmt.Fprintf(b, "\nQuestion: %s\n", item.Prompt)
	b.WriteString("Options:\n")
	for i, opt := range item.Options {
		fmt.Fprintf(b, "%c) %s\n", 'A'+i, opt)
	}
	fmt.Fprintf(b, "Correct option: %c) %s\n", 'A'+item.CorrectIndex, item.CorrectOption())
}

func buildExplainMessage(item sampler.SampledItem) string {
	var b strings.Builder
	writeQuestion(&b, item)
	b.WriteString(`
Instructions:
1. Explain how to reach the correct option in 2-6 short sentences.
2. Show the key calculation or inference step explicitly.
3. Do not discuss the wrong options unless it helps to rule them out quickly.
4. Use plain ASCII text. No LaTeX.`)
	return b.String()
}

func buildSimilarMessage(item sampler.SampledItem, n int) string {
	var b strings.Builder
	writeQuestion(&b, item)
	fmt.Fprintf(&b, `
Instructions:
1. Write %d new multiple-choice questions that test the same concept at the same difficulty.
2. Change the numbers or wording so that the answer is different from the original.
3. Each question lists four options labelled A-D and ends with "Answer: <letter>".
4. Use plain ASCII text. No LaTeX.`, n)
	return b.String()
}
