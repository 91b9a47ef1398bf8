package promptenhancer

import "github.com/pitchforge/backend/internal/model"

// Template pairs a short base instruction with its fully-specified
// enhanced form. Enhanced strings carry bracketed variables filled in
// during substitution; each contains the "[WORD_COUNT] words" phrase
// exactly once.
type Template struct {
	Base     string
	Enhanced string
}

// slideTemplates are keyed by slide type. Body is the generic fallback.
var slideTemplates = map[string]Template{
	model.SlideTypeTitle: {
		Base: "Create a presentation title",
		Enhanced: "Create a compelling presentation title about [TOPIC]. " +
			"Keep it within [WORD_COUNT] words. It should resonate with [AUDIENCE] " +
			"and set a [TONE] tone for the deck.",
	},
	model.SlideTypeContents: {
		Base: "Create an agenda",
		Enhanced: "Create an agenda for a presentation titled \"[SLIDE_TITLE]\" covering " +
			"[SECTION_COUNT] sections, within [WORD_COUNT] words overall. List each section " +
			"as a short line. The agenda is read by [AUDIENCE].",
	},
	model.SlideTypeLegal: {
		Base: "Write a legal disclaimer",
		Enhanced: "Write a legal disclaimer for a business presentation distributed in " +
			"[JURISDICTION]. Use a [STYLE] style and approximately [WORD_COUNT] words.",
	},
	model.SlideTypeSectionDivider: {
		Base: "Write a section heading",
		Enhanced: "Write a section heading introducing the section \"[SECTION_TITLE]\". " +
			"Use at most [WORD_COUNT] words, in a [TONE] tone.",
	},
	model.SlideTypeBody: {
		Base: "Write slide content",
		Enhanced: "Write approximately [WORD_COUNT] words on [TOPIC] for an audience of " +
			"[AUDIENCE]. Use a [TONE] tone and a [STYLE] style, focusing on [FOCUS].",
	},
}

// placeholderTemplates refine body slides by placeholder type. Unknown
// placeholder types degrade to the generic body template.
var placeholderTemplates = map[string]Template{
	model.PlaceholderTypeBullet: {
		Base: "Create bullet points",
		Enhanced: "Create [BULLET_POINTS] concise bullet points on [TOPIC], about [WORD_COUNT] " +
			"words in total, for [AUDIENCE]. Keep each point to a single line, in a [TONE] tone, " +
			"focusing on [FOCUS].",
	},
	model.PlaceholderTypeHeading: {
		Base: "Write a heading",
		Enhanced: "Write a short heading about [TOPIC], no more than [WORD_COUNT] words, " +
			"pitched at [AUDIENCE] in a [TONE] tone.",
	},
	model.PlaceholderTypeSubtitle: {
		Base: "Write a subtitle",
		Enhanced: "Write a subtitle that supports the main title, covering [TOPIC] within " +
			"[WORD_COUNT] words. Tone: [TONE]. Style: [STYLE].",
	},
	model.PlaceholderTypeChart: {
		Base: "Describe a chart insight",
		Enhanced: "Describe the key insight a chart on [TOPIC] should convey to [AUDIENCE], " +
			"in approximately [WORD_COUNT] words, focusing on [FOCUS].",
	},
	model.PlaceholderTypeTable: {
		Base: "Summarize a table",
		Enhanced: "Summarize what a table on [TOPIC] should show [AUDIENCE], in approximately " +
			"[WORD_COUNT] words, focusing on [FOCUS].",
	},
	model.PlaceholderTypePicture: {
		Base: "Write an image caption",
		Enhanced: "Write a caption for an image illustrating [TOPIC], within [WORD_COUNT] words, " +
			"in a [TONE] tone.",
	},
	// "text" is a free-form alias some layouts use for plain body copy.
	"text": {
		Base: "Write slide content",
		Enhanced: "Write approximately [WORD_COUNT] words on [TOPIC] for an audience of " +
			"[AUDIENCE]. Use a [TONE] tone and a [STYLE] style, focusing on [FOCUS].",
	},
}

// selectTemplate resolves the template for a (slideType, placeholderType)
// pair. Specific slide types win; body slides refine by placeholder type;
// everything else degrades to the generic body template.
func selectTemplate(slideType, placeholderType string) Template {
	if slideType != model.SlideTypeBody {
		if t, ok := slideTemplates[slideType]; ok {
			return t
		}
	}
	if t, ok := placeholderTemplates[placeholderType]; ok {
		return t
	}
	return slideTemplates[model.SlideTypeBody]
}
