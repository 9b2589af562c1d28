package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// VerseReference is the structured form of a verse string like
// "John 3:16" or "1 Corinthians 13:4-7". It only exists at the display
// boundary; records store the plain strings.
type VerseReference struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse1  int    `json:"verse1"`
	Verse2  int    `json:"verse2,omitempty"` // zero when the reference is a single verse
}

// book names may themselves contain digits and spaces ("1 Peter"), so the
// chapter:verse tail is anchored at the end.
var verseRefRE = regexp.MustCompile(`^(.+?)\s+(\d+):(\d+)(?:-(\d+))?$`)

func ParseVerseReference(s string) (VerseReference, error) {
	m := verseRefRE.FindStringSubmatch(strings.TrimSpace(s))

	if m == nil {
		return VerseReference{}, fmt.Errorf("malformed verse reference %q", s)
	}

	chapter, err := strconv.Atoi(m[2])

	if err != nil {
		return VerseReference{}, fmt.Errorf("malformed chapter in %q", s)
	}

	verse1, err := strconv.Atoi(m[3])

	if err != nil {
		return VerseReference{}, fmt.Errorf("malformed verse in %q", s)
	}

	ref := VerseReference{
		Book:    m[1],
		Chapter: chapter,
		Verse1:  verse1,
	}

	if m[4] != "" {
		verse2, err := strconv.Atoi(m[4])

		if err != nil {
			return VerseReference{}, fmt.Errorf("malformed verse range in %q", s)
		}

		ref.Verse2 = verse2
	}

	return ref, nil
}

func (r VerseReference) String() string {
	if r.Verse2 > 0 {
		return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.Verse1, r.Verse2)
	}

	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse1)
}
