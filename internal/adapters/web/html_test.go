package web_test

import (
	"testing"

	"github.com/okian/finmacro/internal/adapters/web"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTexts(t *testing.T) {
	Convey("Given a table row", t, func() {
		doc, err := web.Document(`<table><tr><td> a </td><td>
			b</td><td></td></tr></table>`)
		So(err, ShouldBeNil)

		Convey("Then cell texts are trimmed and kept in order", func() {
			So(web.Texts(doc.Find("td")), ShouldResemble, []string{"a", "b", ""})
		})
	})
}
