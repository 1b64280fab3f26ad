package internal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Tone selects the writing voice for the generated post.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneEducational  Tone = "educational"
	ToneStorytelling Tone = "storytelling"
	ToneTechnical    Tone = "technical"
)

var toneInstructions = map[Tone]string{
	ToneProfessional: "Write in a formal, authoritative, data-driven tone. Use professional vocabulary and cite logical evidence.",
	ToneCasual:       "Write in a conversational, friendly, and relatable tone. Use simple language, contractions, and a warm approach.",
	ToneEducational:  "Write in a clear, structured, tutorial-style tone. Break concepts down step by step for easy understanding.",
	ToneStorytelling: "Write in a narrative-driven, engaging, and emotional tone. Use stories, analogies, and vivid examples.",
	ToneTechnical:    "Write with precision, technical detail, and appropriate jargon. Include specifications and technical depth.",
}

// ParseTone resolves a tone flag/config value.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return ToneProfessional, nil
	}
	if _, ok := toneInstructions[t]; !ok {
		return ToneProfessional, fmt.Errorf("unknown tone %q (supported: professional, casual, educational, storytelling, technical)", s)
	}
	return t, nil
}

// Instructions returns the prompt text describing the tone.
func (t Tone) Instructions() string {
	if instr, ok := toneInstructions[t]; ok {
		return instr
	}
	return toneInstructions[ToneProfessional]
}

// ContextEntry is one completed stage's named output as seen by a later
// stage, already truncated to that stage's declared bound.
type ContextEntry struct {
	Stage  string
	Output string
}

// StageData is the template input for one stage's prompt.
type StageData struct {
	Role        string
	Goal        string
	Transcript  string
	Context     []ContextEntry
	Tone        string
	TargetWords int
	AdvancedSEO bool
	Title       string
	Channel     string
}

// AgentStageSpec is the static configuration for one pipeline stage: who
// the stage is, what it produces, which inputs it reads and at what
// truncation bounds. Not mutated during a run.
type AgentStageSpec struct {
	// Name keys the stage's entry in the pipeline context.
	Name string
	// Role and Goal describe the stage persona; treated as opaque text.
	Role string
	Goal string
	// Template is the stage task in text/template form over StageData.
	Template string
	// TranscriptBound caps how many tokens of the (possibly chunked)
	// transcript this stage reads; 0 means the stage does not read it.
	TranscriptBound int
	// ContextBound caps how many tokens of each predecessor's output this
	// stage reads. Bounds never increase down the chain.
	ContextBound int
}

// BuildPrompt renders the full prompt for one generation call: persona
// header, task body, then every prior context entry. The caller passes
// transcript and context already truncated to this spec's bounds.
func (s *AgentStageSpec) BuildPrompt(data StageData) (string, error) {
	data.Role = s.Role
	data.Goal = s.Goal

	tmpl, err := template.New(s.Name).Parse(stagePreamble + s.Template + stageContext)
	if err != nil {
		return "", fmt.Errorf("parsing stage template %q: %w", s.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing stage template %q: %w", s.Name, err)
	}
	return buf.String(), nil
}

const stagePreamble = `You are {{.Role}}.
Your goal: {{.Goal}}

`

const stageContext = `{{if .Context}}

Context from previous stages:
{{range .Context}}
--- {{.Stage}} ---
{{.Output}}
{{end}}{{end}}`

// Default per-stage input bounds, in estimated tokens. The transcript
// excerpt is only read by the first stage; every later stage reads each
// predecessor capped at the same constant bound.
const (
	DefaultTranscriptBound = 8000
	DefaultContextBound    = 3000
)

// DefaultStages returns the five stage specifications in pipeline order.
func DefaultStages() []AgentStageSpec {
	return []AgentStageSpec{
		{
			Name:            "Research Analyst",
			Role:            "an expert content research analyst specializing in breaking down video content",
			Goal:            "extract and analyze core concepts, key arguments, and structure from the video transcript",
			TranscriptBound: DefaultTranscriptBound,
			ContextBound:    DefaultContextBound,
			Template: `Analyze this YouTube video transcript and extract:
1. Main topics (3-5 primary themes)
2. Key concepts and arguments with supporting evidence
3. Important points worth highlighting in a blog post
4. Suggested blog sections based on content flow
5. Any data points, statistics, or examples mentioned
{{if .Title}}
Video: {{.Title}}{{if .Channel}} ({{.Channel}}){{end}}
{{end}}
Transcript:
{{.Transcript}}

Provide a structured analysis that will help create an excellent blog post.`,
		},
		{
			Name:         "Content Strategist",
			Role:         "a seasoned content strategist who transforms raw research into compelling blog structures",
			Goal:         "create a logical blog outline with perfect flow from the research findings",
			ContextBound: DefaultContextBound,
			Template: `Based on the research analysis, create a compelling blog outline for approximately {{.TargetWords}} words.

Requirements:
- Engaging hook in the introduction
- Logical H2/H3 section hierarchy
- Clear transitions between sections
- Key takeaways section
- Strong conclusion with a call to action
- Aim for {{.TargetWords}} words total

Return a complete markdown outline with ## and ### headings.`,
		},
		{
			Name:         "SEO Optimizer",
			Role:         "an SEO specialist who understands search intent, keyword optimization, and compelling titles",
			Goal:         "generate an SEO-optimized title, meta description, and keyword strategy",
			ContextBound: DefaultContextBound,
			Template: `Create SEO optimization for this blog post.

Required outputs:
1. SEO Title (60 characters max, compelling, keyword-rich)
2. Meta Description (155 characters max, includes primary keyword, has a CTA)
3. Primary Keyword (single most important keyword)
{{if .AdvancedSEO}}4. Secondary Keywords (5-8 related keywords)
5. Optimized H2/H3 heading suggestions
6. Keyword density recommendations
7. Link building opportunities (types of sites to link to)
8. Schema markup type recommendation
{{end}}
Format your response clearly with labeled sections.`,
		},
		{
			Name:         "Blog Writer",
			Role:         "a professional content writer whose posts rank, engage, and convert",
			Goal:         "write an engaging, human-quality, full blog post based on the outline and SEO strategy",
			ContextBound: DefaultContextBound,
			Template: `Write a complete, publication-ready blog post following these specifications:

Tone: {{.Tone}}
Target length: approximately {{.TargetWords}} words

Requirements:
- Follow the outline structure exactly
- Use the SEO title and integrate keywords naturally
- Write with the specified tone throughout
- Include relevant examples and actionable insights
- Use bullet points and numbered lists for scannability
- Add a strong call-to-action at the end
- Make it feel human-written, not AI-generated

Format the entire blog post in proper Markdown. Include at the very top:
**SEO Title:** [the SEO-optimized title]
**Meta Description:** [the meta description]
**Primary Keyword:** [primary keyword]

Then the full blog post content below.`,
		},
		{
			Name:         "Quality Reviewer",
			Role:         "a seasoned editor with an eye for detail and a commitment to quality",
			Goal:         "polish the blog post to publication standards",
			ContextBound: DefaultContextBound,
			Template: `Review and polish the blog post to publication standards:

1. Fix any grammatical errors or typos
2. Eliminate repetitive phrases or redundant content
3. Improve sentence variety and readability
4. Ensure the tone is consistent throughout
5. Verify the call-to-action is strong and clear
6. Ensure headings are compelling and descriptive
7. Check that the content flows naturally

Return the COMPLETE polished blog post in Markdown format.
Keep the SEO Title, Meta Description, and Primary Keyword at the top.
Do not remove or summarize content - return the full, improved post.`,
		},
	}
}
