package catalog

import "narrator/pkg/length"

// PersonaTemplateID is the template whose scripts are voiced by a persona.
const PersonaTemplateID = "persona-monologue"

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Languages: []Language{
			{ID: "vi", Label: "Tiếng Việt", Code: "vi-VN", Name: "Vietnamese"},
			{ID: "en", Label: "English", Code: "en-US", Name: "English"},
			{ID: "es", Label: "Español", Code: "es-ES", Name: "Spanish"},
			{ID: "fr", Label: "Français", Code: "fr-FR", Name: "French"},
			{ID: "de", Label: "Deutsch", Code: "de-DE", Name: "German"},
			{ID: "pt", Label: "Português", Code: "pt-BR", Name: "Portuguese"},
			{ID: "th", Label: "ภาษาไทย", Code: "th-TH", Name: "Thai"},
			{ID: "jp", Label: "日本語", Code: "ja-JP", Name: "Japanese"},
			{ID: "kr", Label: "한국어", Code: "ko-KR", Name: "Korean"},
			{ID: "zh", Label: "中文", Code: "zh-CN", Name: "Chinese"},
		},
		Durations: []Duration{
			{ID: length.Short, Label: "Ngắn", Description: "Khoảng 3 phút", Minutes: minutes(length.Short)},
			{ID: length.Medium, Label: "Vừa", Description: "Khoảng 7 phút", Minutes: minutes(length.Medium)},
			{ID: length.Long, Label: "Dài", Description: "Khoảng 10 phút", Minutes: minutes(length.Long)},
			{ID: length.VeryLong, Label: "Rất dài", Description: "Khoảng 20 phút", Minutes: minutes(length.VeryLong)},
			{ID: length.Custom, Label: "Tùy chỉnh", Description: "Tự nhập số phút"},
		},
		Templates: []Template{
			{
				ID:        "story",
				Title:     "Kể chuyện",
				Style:     "Warm, vivid storytelling with sensory detail and natural dialogue woven into narration.",
				Narrative: true,
				Instructions: `STRUCTURE:
- Open with a hook in the first two sentences: a question, a strange detail or a moment of tension.
- Develop the situation and the people in it before anything is resolved.
- Build to one clear climax where the central conflict peaks.
- Close with a conclusion that shows what changed and leaves a quiet final image.`,
			},
			{
				ID:        "top-list",
				Title:     "Top danh sách",
				Style:     "Energetic countdown host, punchy transitions, each entry more surprising than the last.",
				Narrative: true,
				Instructions: `STRUCTURE:
- Count down from the highest number to number one; announce each entry in spoken words, never as a list.
- Give every entry its own mini story: what it is, why it matters, one surprising fact.
- Bridge entries with a spoken transition that teases the next one.
- Number one must be the most remarkable entry and gets the longest treatment.`,
			},
			{
				ID:        "history",
				Title:     "Lịch sử bí ẩn",
				Style:     "Documentary narrator, measured and suspenseful, grounded in concrete dates and places.",
				Narrative: true,
				Instructions: `STRUCTURE:
- Open at the most dramatic moment, then step back to explain how it came to be.
- Anchor every section in a place, a year and a person.
- Present competing explanations fairly before giving the most supported one.
- End by connecting the story to what remains today.`,
			},
			{
				ID:          PersonaTemplateID,
				Title:       "Độc thoại nhân vật",
				Style:       "A first-person monologue voiced entirely by one persona speaking directly to the listener.",
				Narrative:   true,
				DualPersona: true,
				Instructions: `STRUCTURE:
- The persona speaks in first person for the entire script; there is no separate narrator.
- Move between memory, reflection and direct advice to the listener.
- Every lesson must grow out of a concrete story the persona tells.
- Close with a personal farewell in the persona's own voice.`,
			},
			{
				ID:        "title",
				Title:     "Tạo tiêu đề",
				Style:     "Concise, curiosity-driven video titles.",
				Narrative: false,
				Instructions: `TITLE RULES:
- Produce ten alternative titles for the idea, one per line, no numbering.
- Each title stays under 70 characters and makes one specific promise.
- Avoid clickbait phrases that the script could not deliver on.`,
			},
		},
		Personas: []Persona{
			{
				ID:             "ong-tu",
				Name:           "Ông Tư",
				Archetype:      "The village storyteller",
				Style:          "Slow, warm southern Vietnamese speech, proverbs, gentle humor, long pauses carried by short sentences.",
				CorePhilosophy: "A life is measured by the kindness you leave behind, not by what you keep.",
				Keywords:       []string{"ruộng lúa", "con đò", "tình người", "nhẫn nại", "mùa nước nổi"},
				Sample: `Con ngồi xuống đây với ông một chút. Ông kể con nghe chuyện mùa nước nổi năm đó, cái năm mà cả xóm chỉ còn mỗi chiếc đò nhỏ của ông Ba. Người ta nói ông Ba nghèo, mà con biết không, ông chở cả xóm qua sông suốt ba ngày không lấy một đồng. Ông nhớ hoài cái dáng ổng cúi xuống chèo, mồ hôi nhỏ xuống mặt nước. Đời người ngắn lắm con à. Cái mình giữ thì mất, cái mình cho đi thì còn.`,
				Outline: []string{
					"Ông Tư mời người nghe ngồi xuống và gợi lại một ký ức tuổi thơ",
					"Câu chuyện mùa nước nổi và chiếc đò của ông Ba",
					"Những ngày khó khăn của cả xóm",
					"Lựa chọn giữa giữ của và giúp người",
					"Khoảnh khắc ông Ba chèo chuyến đò cuối cùng",
					"Bài học ông Tư rút ra sau bao nhiêu năm",
					"Lời dặn dò và lời chào tạm biệt",
				},
				Characters: []string{"Ông Tư - người kể chuyện", "Ông Ba - người lái đò", "Bà con trong xóm"},
				PacingNote: "Chậm rãi, nhiều khoảng lặng, mỗi phần kết thúc bằng một câu nói mộc mạc.",
			},
			{
				ID:             "dr-nova",
				Name:           "Dr. Nova",
				Archetype:      "The stoic scientist",
				Style:          "Precise, calm, curious; short declarative sentences; analogies from physics and astronomy.",
				CorePhilosophy: "Fear shrinks when you measure it. Understand first, then act.",
				Keywords:       []string{"entropy", "orbit", "signal", "patience", "evidence"},
				Sample: `Let me tell you about the night the telescope went dark. Forty hours of data, gone. I sat in that cold control room and did the only thing I knew how to do. I wrote down what I knew, and what I did not. The list of what I knew was short. The list of what I did not know was where the work began. Panic is just a signal with no measurement attached. Measure it, and it becomes a problem. Problems can be solved.`,
				Outline: []string{
					"Dr. Nova opens with the night the observatory lost its data",
					"How panic felt and what she measured first",
					"The evidence that pointed to the real failure",
					"The choice between hiding the mistake and publishing it",
					"The long rebuild, orbit by orbit",
					"What the universe taught her about patience",
					"A direct challenge to the listener and a farewell",
				},
				Characters: []string{"Dr. Nova - narrator", "Eli - junior researcher", "The observatory director"},
				PacingNote: "Even tempo, each stage ends on a one-line principle.",
			},
		},
	}
}
