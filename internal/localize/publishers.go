package localize

import (
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/script"
)

// knownJapanesePublishers are matched by case-insensitive substring.
var knownJapanesePublishers = []string{
	// board game publishers
	"Hobby Japan", "ホビージャパン",
	"Arclight", "アークライト",
	"Ten Days Games", "テンデイズゲームズ",
	"Japon Brand",
	"Grounding", "グラウンディング",
	"Oink Games", "オインクゲームズ",
	"Sugorokuya", "すごろくや",
	"COLON ARC", "コロンアーク",
	"Analog Lunchbox", "アナログランチボックス",
	"Domina Games", "ドミナゲームズ",
	"OKAZU Brand", "おかず",
	"Suki Games", "数寄ゲームズ",
	"Yanagisawa", "柳澤",
	"Ayatsurare Ningyoukan", "あやつられ人形館",
	"BakaFire", "バカファイア",
	"Manifest Destiny", "マニフェストデスティニー",
	"Saien", "彩園",
	"Sato Familie", "佐藤ファミリー",
	"Shinojo", "紫猫",
	"Takoashi Games", "タコアシゲームズ",
	"Takuya Ono", "小野卓也",
	"Yocto Games", "ヨクト",
	"Yuhodo", "遊歩堂",
	"Itten", "いつつ",
	"Jelly Jelly Games", "ジェリージェリーゲームズ",
	"Kocchiya", "こっちや",
	"Kuuri", "くうり",
	"New Games Order", "ニューゲームズオーダー",
	"Qvinta", "クインタ",
	"Route11", "ルート11",
	"Suki Games Mk2", "スキゲームズMk2",
	"Taikikennai Games", "耐気圏内ゲームズ",
	"Team Saien", "チーム彩園",
	"Tokyo Game Market", "東京ゲームマーケット",
	"Toshiki Sato", "佐藤敏樹",
	"Yuuai Kikaku", "遊愛企画",

	// toy, video game and book companies
	"Capcom", "カプコン",
	"Bandai", "バンダイ",
	"Konami", "コナミ",
	"Nintendo", "任天堂",
	"Sega", "セガ",
	"Square Enix", "スクウェア・エニックス",
	"Taito", "タイトー",
	"Takara Tomy", "タカラトミー",
	"Kadokawa", "角川",
	"Shogakukan", "小学館",
	"Shueisha", "集英社",
	"Kodansha", "講談社",
	"Gentosha", "幻冬舎",
	"Hayakawa", "早川",
	"Kawada", "カワダ",
	"Ensky", "エンスカイ",
	"Megahouse", "メガハウス",
	"Hanayama", "ハナヤマ",
	"Beverly", "ビバリー",
	"Tenyo", "テンヨー",
	"Epoch", "エポック",

	// japanese branches and distributors
	"Hasbro Japan", "ハズブロジャパン",
	"Asmodee Japan", "アズモデージャパン",
	"G Games", "Gゲームズ",
	"Engames", "エンゲームズ",
	"Mobius Games", "メビウスゲームズ",
	"Moaideas", "モアイデアズ",
	"Analog Game", "アナログゲーム",
	"Kenbill",
	"Yellow Submarine",
	"Namco",
}

var lowerPublishers = func() []string {
	out := make([]string, len(knownJapanesePublishers))
	for i, p := range knownJapanesePublishers {
		out[i] = strings.ToLower(p)
	}
	return out
}()

// IsJapanesePublisher reports whether name looks like a Japanese publisher.
//
// The match is permissive: any allowlisted substring, any CJK character or the
// word "japan" is enough, so some non-Japanese publishers are accepted too.
func IsJapanesePublisher(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	for _, p := range lowerPublishers {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return script.HasCJK(name) || strings.Contains(lower, "japan")
}

// FirstJapanesePublisher returns the first entry of publishers accepted by IsJapanesePublisher.
func FirstJapanesePublisher(publishers []string) string {
	for _, p := range publishers {
		if IsJapanesePublisher(p) {
			return p
		}
	}
	return ""
}
