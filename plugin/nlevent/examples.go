package nlevent

// examples are phrases shown to users as input hints.
var examples = []string{
	"明日の午後2時に会議",
	"来週の金曜日の10時から12時まで研修",
	"3月15日の朝9時に歯医者",
	"今度の日曜日に家族との食事",
	"来月の第2火曜日の午後3時に定期検診",
	"明後日の夕方5時にミーティング",
	"今週末の午前10時にヨガクラス",
	"12月25日の夜7時にクリスマスパーティー",
}

// Examples returns a copy of the example phrase list.
func Examples() []string {
	out := make([]string, len(examples))
	copy(out, examples)
	return out
}
