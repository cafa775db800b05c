package classify

import "testing"

func TestIsOutage(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"keyword and time", "Відключення світла 08:00-12:00", true},
		{"keyword without time", "Планове відключення завтра", false},
		{"time without keyword", "Зустріч о 14:30", false},
		{"plain chat", "Привіт, як справи?", false},
		{"russian keyword", "Отключение электроэнергии с 10:00 до 14:00", true},
		{"dot separated time", "Графік на завтра: 08.30-12.30", true},
		{"upper case keyword", "ГРАФІК ВІДКЛЮЧЕНЬ 10:00-12:00", true},
		{"dash separated time", "Без світла з 10-00 по 12-00", true},
		{"schedule keyword only digits", "Графік 123456", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOutage(tc.text); got != tc.want {
				t.Errorf("IsOutage(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
