package textnorm

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// englishStopwords is the NLTK English list with the apostrophe forms
// removed; the Latin path strips apostrophes before lookup.
var englishStopwords = set(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until", "while",
	"of", "at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then", "once",
	"here", "there", "when", "where", "why", "how", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "so", "than", "too", "very", "s", "t", "can", "will", "just",
	"don", "should", "now", "d", "ll", "m", "o", "re", "ve", "y",
	"ain", "aren", "couldn", "didn", "doesn", "hadn", "hasn", "haven", "isn",
	"ma", "mightn", "mustn", "needn", "shan", "shouldn", "wasn", "weren", "won", "wouldn",
)

var japaneseStopwords = set(
	"あそこ", "あたり", "あちら", "あっち", "あと", "あな", "あなた", "あれ", "いくつ", "いつ", "いま", "いや",
	"おい", "おかげ", "おまえ", "おれ", "がい", "かく", "かたち", "かやの", "から", "がら", "きた", "くせ",
	"ここ", "こちら", "こっち", "こと", "ごと", "こな", "これ", "ごろ", "さて", "さん", "しかた", "しよう",
	"すか", "ずつ", "すね", "すべて", "せる", "そこ", "そちら", "そっち", "そで", "それ", "それぞれ", "たい",
	"たかい", "たくさん", "たち", "たび", "だめ", "ちゃ", "ちゃん", "てん", "とき", "どこ", "どちら", "どっち",
	"どの", "なか", "なに", "など", "なん", "はじめ", "はず", "はるか", "はん", "ひと", "ひとつ", "ふく", "ぶり",
	"べつ", "ほか", "まさ", "まし", "まとも", "まま", "みたい", "みつ", "みなさん", "みんな", "もと", "もの",
	"やつ", "よう", "よそ", "わけ", "わたし", "われ", "ん",
	"ア", "イ", "ウ", "エ", "オ", "カ", "キ", "ク", "ケ", "コ", "サ", "シ", "ス", "セ", "ソ",
	"タ", "チ", "ツ", "テ", "ト", "ナ", "ニ", "ヌ", "ネ", "ノ", "ハ", "ヒ", "フ", "ヘ", "ホ",
	"マ", "ミ", "ム", "メ", "モ", "ヤ", "ユ", "ヨ", "ラ", "リ", "ル", "レ", "ロ", "ワ", "ヲ", "ン",
	"一", "一方", "一部", "上", "下", "何", "何か", "全体", "全部", "他", "内", "前", "後",
	"だ", "です", "どう", "ます", "ある", "いる", "おる", "ない", "ように",
)
