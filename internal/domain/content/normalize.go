package content

import "strings"

// Normalize cleans a submission in place before persistence, regardless of
// mode. Blank verse entries are dropped (order of the rest preserved),
// custom sections without a title or without any remaining verses are
// dropped entirely, and blank intercessor/notes collapse to absent rather
// than being stored as empty strings.
func Normalize(req *SaveRequest) {
	req.Opening = dropBlank(req.Opening)
	req.Lessons = dropBlank(req.Lessons)
	req.Vision = dropBlank(req.Vision)
	req.Speaker = dropBlank(req.Speaker)

	sections := make([]CustomSection, 0, len(req.CustomSections))

	for _, s := range req.CustomSections {
		s.Verses = dropBlank(s.Verses)

		if strings.TrimSpace(s.Title) == "" || len(s.Verses) == 0 {
			continue
		}

		sections = append(sections, s)
	}

	req.CustomSections = sections

	req.Intercessor = blankToNil(req.Intercessor)
	req.Notes = blankToNil(req.Notes)
}

func dropBlank(in []string) []string {
	out := make([]string, 0, len(in))

	for _, v := range in {
		if strings.TrimSpace(v) == "" {
			continue
		}

		out = append(out, v)
	}

	return out
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}

	return v
}
