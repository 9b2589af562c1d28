// Package verses serves the rotating daily Bible verse shown on the
// public landing page. The rotation is a pure function of the calendar
// day, so every instance agrees on the verse without coordination.
package verses

import "time"

type Verse struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

var rotation = []Verse{
	{Text: "For where two or three gather in my name, there am I with them.", Reference: "Matthew 18:20"},
	{Text: "Trust in the Lord with all your heart and lean not on your own understanding.", Reference: "Proverbs 3:5"},
	{Text: "I can do all things through Christ who strengthens me.", Reference: "Philippians 4:13"},
	{Text: "Be strong and courageous. Do not be afraid; do not be discouraged, for the Lord your God will be with you wherever you go.", Reference: "Joshua 1:9"},
	{Text: "The Lord is my shepherd, I lack nothing.", Reference: "Psalm 23:1"},
	{Text: "For God so loved the world that he gave his one and only Son, that whoever believes in him shall not perish but have eternal life.", Reference: "John 3:16"},
	{Text: "Cast all your anxiety on him because he cares for you.", Reference: "1 Peter 5:7"},
	{Text: "And we know that in all things God works for the good of those who love him, who have been called according to his purpose.", Reference: "Romans 8:28"},
	{Text: "The Lord your God is with you, the Mighty Warrior who saves. He will take great delight in you; in his love he will no longer rebuke you, but will rejoice over you with singing.", Reference: "Zephaniah 3:17"},
	{Text: "Have I not commanded you? Be strong and courageous. Do not be afraid; do not be discouraged, for the Lord your God will be with you wherever you go.", Reference: "Joshua 1:9"},
	{Text: "But those who hope in the Lord will renew their strength. They will soar on wings like eagles; they will run and not grow weary, they will walk and not be faint.", Reference: "Isaiah 40:31"},
	{Text: "The Lord is close to the brokenhearted and saves those who are crushed in spirit.", Reference: "Psalm 34:18"},
	{Text: "Do not be anxious about anything, but in every situation, by prayer and petition, with thanksgiving, present your requests to God.", Reference: "Philippians 4:6"},
	{Text: "Jesus replied, 'What is impossible with man is possible with God.'", Reference: "Luke 18:27"},
	{Text: "Come to me, all you who are weary and burdened, and I will give you rest.", Reference: "Matthew 11:28"},
	{Text: "The Lord himself goes before you and will be with you; he will never leave you nor forsake you. Do not be afraid; do not be discouraged.", Reference: "Deuteronomy 31:8"},
	{Text: "Love is patient, love is kind. It does not envy, it does not boast, it is not proud.", Reference: "1 Corinthians 13:4"},
	{Text: "Therefore, if anyone is in Christ, the new creation has come: The old has gone, the new is here!", Reference: "2 Corinthians 5:17"},
	{Text: "Peace I leave with you; my peace I give you. I do not give to you as the world gives. Do not let your hearts be troubled and do not be afraid.", Reference: "John 14:27"},
	{Text: "The name of the Lord is a fortified tower; the righteous run to it and are safe.", Reference: "Proverbs 18:10"},
	{Text: "Delight yourself in the Lord, and he will give you the desires of your heart.", Reference: "Psalm 37:4"},
	{Text: "And my God will meet all your needs according to the riches of his glory in Christ Jesus.", Reference: "Philippians 4:19"},
	{Text: "Commit to the Lord whatever you do, and he will establish your plans.", Reference: "Proverbs 16:3"},
	{Text: "The Lord your God is in your midst, a mighty one who will save; he will rejoice over you with gladness; he will quiet you by his love; he will exult over you with loud singing.", Reference: "Zephaniah 3:17"},
	{Text: "He heals the brokenhearted and binds up their wounds.", Reference: "Psalm 147:3"},
	{Text: "The Lord is good, a refuge in times of trouble. He cares for those who trust in him.", Reference: "Nahum 1:7"},
	{Text: "In their hearts humans plan their course, but the Lord establishes their steps.", Reference: "Proverbs 16:9"},
	{Text: "The Lord will fight for you; you need only to be still.", Reference: "Exodus 14:14"},
	{Text: "But seek first his kingdom and his righteousness, and all these things will be given to you as well.", Reference: "Matthew 6:33"},
	{Text: "Let us hold unswervingly to the hope we profess, for he who promised is faithful.", Reference: "Hebrews 10:23"},
	{Text: "The Lord is my rock, my fortress and my deliverer; my God is my rock, in whom I take refuge, my shield and the horn of my salvation, my stronghold.", Reference: "Psalm 18:2"},
}

// ForDay returns the verse assigned to the given calendar day. The day of
// year cycles through the rotation, so consecutive days differ and a year
// wraps cleanly.
func ForDay(t time.Time) Verse {
	idx := (t.YearDay() - 1) % len(rotation)

	return rotation[idx]
}

// Today returns the verse for the current day.
func Today() Verse {
	return ForDay(time.Now())
}

// Upcoming previews the next n days of the rotation starting today.
func Upcoming(n int) []Verse {
	if n <= 0 {
		n = 7
	}

	out := make([]Verse, 0, n)
	start := time.Now()

	for i := 0; i < n; i++ {
		out = append(out, ForDay(start.AddDate(0, 0, i)))
	}

	return out
}
