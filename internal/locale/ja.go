package locale

import (
	"golang.org/x/text/language"

	"gfmlint/internal/validate"
)

// jaRuleMessages is consulted first, by exact rule id.
var jaRuleMessages = []pair{
	{"no-duplicate-headings", "同じテキストの見出しが重複しています。見出しは一意である必要があります"},
	{"no-missing-blank-lines", "空行が必要な箇所に空行がありません"},
	{"no-consecutive-blank-lines", "連続した空行は使用できません"},
	{"no-trailing-spaces", "行末に余分なスペースがあります"},
	{"hard-break-spaces", "改行の前には2つ以上のスペースが必要です"},
	{"no-emphasis-as-heading", "見出しとして強調を使用しないでください"},
	{"no-heading-punctuation", "見出しの末尾に句読点を使用しないでください"},
	{"no-inline-padding", "インライン要素の内側にパディングを使用しないでください"},
	{"no-literal-urls", "URLは<>で囲むか、リンク記法を使用してください"},
	{"no-shortcut-reference-link", "ショートカット参照リンクは使用しないでください"},
	{"no-table-indentation", "テーブルはインデントしないでください"},
}

// jaMessages is matched exactly, then by substring in this order.
var jaMessages = []pair{
	// 見出し
	{"Unexpected heading rank", "見出しレベルが不適切です"},
	{"Unexpected duplicate toplevel heading, exected a single heading with rank `1`", "最上位の見出し（h1）が重複しています。h1は1つのみ使用してください"},
	{"Heading should have a space after the hash signs", "見出し記号(#)の後にはスペースが必要です"},
	{"Heading levels should increment by one level at a time", "見出しレベルは一度に1レベルずつ増やす必要があります"},
	{"Heading levels should not increment by more than 1 level", "見出しレベルは一度に1レベル以上増やすことはできません"},
	{"Unexpected heading with equivalent text, expected unique headings", "同じテキストの見出しが重複しています。見出しは一意である必要があります"},

	// リスト
	{"Ordered list item marker should be followed by a space", "番号付きリスト項目の後にはスペースが必要です"},
	{"Unordered list item marker should be followed by a space", "箇条書きリスト項目の後にはスペースが必要です"},
	{"List item marker should be a hyphen", "リスト項目マーカーはハイフン(-)を使用してください"},
	{"Ordered list should start with 1", "番号付きリストは1から始める必要があります"},

	// テーブル
	{"Table should have a separator row", "テーブルには区切り行が必要です"},
	{"Table separator row should have at least 3 dashes in each cell", "テーブル区切り行の各セルには少なくとも3つのダッシュが必要です"},

	// タスクリスト
	{"Checkbox should be followed by a space", "チェックボックスの後にはスペースが必要です"},
	{"Checkbox marker should be either [ ] or [x]", "チェックボックスマーカーは[ ]または[x]である必要があります"},

	// リンク
	{"Link should have a destination", "リンクには宛先が必要です"},
	{"Link text should not be empty", "リンクテキストは空にできません"},

	// その他
	{"Expected a closing delimiter", "閉じる区切り文字が必要です"},
	{"Expected an opening delimiter", "開始区切り文字が必要です"},
	{"Expected indentation", "インデントが必要です"},
	{"Expected a blank line", "空行が必要です"},
	{"Unexpected blank line", "不要な空行があります"},
	{"Expected a line ending", "行末が必要です"},
	{"Expected a heading", "見出しが必要です"},
	{"Expected a list item", "リスト項目が必要です"},
	{"Expected a table", "テーブルが必要です"},
	{"Expected a code block", "コードブロックが必要です"},
	{"Expected a blockquote", "引用が必要です"},
	{"Expected a paragraph", "段落が必要です"},
	{"Expected a thematic break", "区切り線が必要です"},
	{"Expected a definition", "定義が必要です"},
	{"Expected a footnote", "脚注が必要です"},
	{"Expected a reference", "参照が必要です"},
	{"Expected a link", "リンクが必要です"},
	{"Expected an image", "画像が必要です"},
	{"Expected a strong", "強調が必要です"},
	{"Expected an emphasis", "イタリックが必要です"},
	{"Expected a code span", "コードスパンが必要です"},
	{"Expected a break", "改行が必要です"},
	{"Expected a text", "テキストが必要です"},
	{"Expected a html", "HTMLが必要です"},
	{"Expected a yaml", "YAMLが必要です"},
	{"Expected a toml", "TOMLが必要です"},
	{"Expected a math", "数式が必要です"},
	{"Expected a mdx", "MDXが必要です"},
	{"Expected a mdxJsxFlowElement", "MDX JSXフロー要素が必要です"},
	{"Expected a mdxJsxTextElement", "MDX JSXテキスト要素が必要です"},
	{"Expected a mdxFlowExpression", "MDXフロー式が必要です"},
	{"Expected a mdxTextExpression", "MDXテキスト式が必要です"},
	{"Expected a mdxjsEsm", "MDX JSX ESMが必要です"},
}

var japanese = &catalogue{
	tag:          language.Japanese,
	ruleMessages: jaRuleMessages,
	prefixes: []pair{
		{validate.ParseErrorPrefix, "パース中にエラーが発生しました: "},
	},
	messages: jaMessages,
	categories: map[validate.Category]string{
		validate.CategoryGeneral:       "一般",
		validate.CategoryHeading:       "見出し",
		validate.CategoryList:          "リスト",
		validate.CategoryTable:         "テーブル",
		validate.CategoryTaskList:      "タスクリスト",
		validate.CategoryStrikethrough: "取り消し線",
		validate.CategoryAutolink:      "自動リンク",
	},
	severities: map[validate.Severity]string{
		validate.SeverityError:   "エラー",
		validate.SeverityWarning: "警告",
		validate.SeverityNote:    "注意",
	},
	tabs: []Tab{
		{validate.CategoryGeneral, "すべて", "すべてのバリデーション結果を表示します"},
		{validate.CategoryHeading, "見出し", "見出しの書式や順序に関するルールをチェックします"},
		{validate.CategoryList, "リスト", "番号付きリストや箇条書きリストのルールをチェックします"},
		{validate.CategoryTable, "テーブル", "テーブルの書式や構造をチェックします"},
		{validate.CategoryTaskList, "タスク", "タスクリストの書式をチェックします"},
		{validate.CategoryStrikethrough, "取消線", "取り消し線の書式をチェックします"},
		{validate.CategoryAutolink, "リンク", "URLの自動リンク化に関するルールをチェックします"},
	},
	texts: map[TextKey]string{
		TextTitle:            "バリデーション結果",
		TextNoErrors:         "エラーはありません。Markdownは正しく記述されています。",
		TextNoCategoryErrors: "このカテゴリにはエラーはありません。",
		TextUnknownCategory:  "不明",
		TextOriginal:         "原文",
		TextRuleID:           "ルールID",
		TextLine:             "行",
		TextColumn:           "列",
		TextMessage:          "メッセージ",
		TextCategory:         "カテゴリ",
		TextSeverity:         "重要度",
		TextProblems:         "件の問題",
		TextFixed:            "件を修正しました",
	},
}
