// Package screenplay chứa các heuristic đọc screenplay dạng text thuần.
// Không phải parser: không có grammar, chỉ so khớp từng dòng.
//
// Misdetection đã biết:
//   - Dòng viết hoa toàn bộ không phải cue (THE END, CUT TO) vẫn bị coi là character.
//   - Cue có chữ thường (McCLANE) bị bỏ sót.
package screenplay

import (
	"regexp"
	"strings"
)

// MaxCueLength: cue dài hơn (tính cả parenthetical) không được coi là tên nhân vật
const MaxCueLength = 30

var (
	// INT. / EXT. / INT./EXT. ở đầu dòng
	headingPattern = regexp.MustCompile(`^(INT|EXT)\.`)

	// Token viết hoa, ít nhất 3 ký tự
	cuePattern = regexp.MustCompile(`^[A-Z][A-Z0-9\s\-.]{2,}$`)

	// Một parenthetical ở cuối dòng, vd "(V.O.)", "(CONT'D)"
	parentheticalPattern = regexp.MustCompile(`\s*\([^()]*\)$`)
)

// Lines tách text theo \n (chấp nhận \r\n); không trim
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// IsSceneHeading: dòng (đã trim) bắt đầu bằng INT. hoặc EXT.
func IsSceneHeading(line string) bool {
	return headingPattern.MatchString(strings.TrimSpace(line))
}

// IsScreenplayFormatted trả true nếu có scene heading
// hoặc có ít nhất một dòng không rỗng viết hoa toàn bộ.
func IsScreenplayFormatted(text string) bool {
	for _, l := range Lines(text) {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if headingPattern.MatchString(t) || cuePattern.MatchString(t) {
			return true
		}
	}
	return false
}

// ExtractCharacters trả về tên nhân vật phân biệt, theo thứ tự xuất hiện đầu tiên
func ExtractCharacters(script string) []string {
	seen := make(map[string]struct{})
	names := []string{}

	for _, l := range Lines(script) {
		t := strings.TrimSpace(l)
		if t == "" || len(t) > MaxCueLength || headingPattern.MatchString(t) {
			continue
		}

		name := strings.TrimSpace(parentheticalPattern.ReplaceAllString(t, ""))
		if !cuePattern.MatchString(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractSceneBlocks: mỗi heading mở một block tới trước heading kế tiếp.
// Không có heading thì cả script là một block. Dòng giữ nguyên text gốc.
func ExtractSceneBlocks(script string) []string {
	lines := Lines(script)

	var starts []int
	for i, l := range lines {
		if IsSceneHeading(l) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return []string{strings.Join(lines, "\n")}
	}

	blocks := make([]string, 0, len(starts))
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks = append(blocks, strings.Join(lines[start:end], "\n"))
	}
	return blocks
}

// SceneNumbers: 1..n theo số scene block của script
func SceneNumbers(script string) []int {
	blocks := ExtractSceneBlocks(script)
	numbers := make([]int, len(blocks))
	for i := range blocks {
		numbers[i] = i + 1
	}
	return numbers
}
