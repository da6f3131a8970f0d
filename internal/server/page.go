package server

import (
	"html/template"
	"slices"

	"github.com/chyiyaqing/diszeroer/internal/filter"
)

var tmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"hasString":  func(list []string, s string) bool { return slices.Contains(list, s) },
	"hasFeature": func(o filter.Options, f filter.Feature) bool { return o.Has(f) },
	"fpLimit":    formatFloat,
	// appLink marks a deep link built by jianshu.ArticleURLScheme as safe;
	// html/template would otherwise replace the non-http scheme.
	"appLink": func(s string) template.URL { return template.URL(s) },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>简书消零派辅助工具</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 960px; margin: 0 auto; padding: 20px; }
  h1 { margin-bottom: 12px; font-size: 24px; }
  p { line-height: 1.7; margin-bottom: 8px; }
  hr { border: none; border-top: 1px solid #ddd; margin: 20px 0; }
  .settings { display: grid; grid-template-columns: 3fr 1fr 3fr; }
  .field { margin-bottom: 14px; }
  .field label.title { display: block; font-weight: 600; font-size: 14px; margin-bottom: 6px; }
  .field input[type=number] { width: 100%; padding: 6px 8px; border: 1px solid #ccc; border-radius: 4px; }
  .field .help { font-size: 12px; color: #888; margin-top: 4px; }
  .field .option { display: block; font-size: 14px; margin: 4px 0; }
  button { padding: 8px 24px; border: none; border-radius: 6px; background: #34a853; color: #fff; font-size: 14px; cursor: pointer; }
  .toast { padding: 10px 14px; border-radius: 6px; margin-bottom: 8px; font-size: 14px; }
  .toast.error { background: #fce8e6; color: #c5221f; }
  .toast.success { background: #e6f4ea; color: #137333; }
  details { background: #fff; border-radius: 8px; padding: 12px 18px; margin-bottom: 10px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  summary { font-weight: 600; cursor: pointer; }
  dl { margin-top: 10px; font-size: 14px; line-height: 1.8; }
  dt { float: left; clear: left; color: #888; }
  dt::after { content: "："; }
  dd { margin-left: 5em; }
  .abstract { margin-top: 10px; white-space: pre-wrap; line-height: 1.6; }
  .scheme { display: inline-block; margin-top: 10px; }
  .empty { text-align: center; padding: 40px 20px; color: #999; }
  footer { margin-top: 40px; font-size: 12px; color: #999; text-align: center; }
</style>
</head>
<body>
<div class="container">
  <h1>简书消零派辅助工具</h1>
  <p><b>消灭零评论，留下爱与光。</b></p>
  <p>本工具为辅助简书消零派寻找符合条件的文章而开发。</p>
  <p>请调整下方设置并获取文章列表。</p>
  <p>工作原理：在您选定的专题中查找新发布且赞、评少于一定数量的文章，进行处理后展示到页面上。</p>
  <hr>
  <form method="get" action="/">
    <input type="hidden" name="submit" value="1">
    <div class="settings">
      <div>
        <div class="field">
          <label class="title" for="likes_limit">点赞数上限</label>
          <input type="number" id="likes_limit" name="likes_limit" value="{{.Options.LikesLimit}}">
          <div class="help">介于 {{.Limits.MinLikes}} 到 {{.Limits.MaxLikes}} 之间</div>
        </div>
        <div class="field">
          <label class="title" for="comments_limit">评论数上限</label>
          <input type="number" id="comments_limit" name="comments_limit" value="{{.Options.CommentsLimit}}">
          <div class="help">介于 {{.Limits.MinComments}} 到 {{.Limits.MaxComments}} 之间</div>
        </div>
        <div class="field">
          <label class="title" for="max_result_count">结果数量</label>
          <input type="number" id="max_result_count" name="max_result_count" value="{{.Options.MaxResultCount}}">
          <div class="help">介于 {{.Limits.MinCount}} 到 {{.Limits.MaxCount}} 之间</div>
        </div>
      </div>
      <div></div>
      <div>
        <div class="field">
          <label class="title">专题选择</label>
          {{range .Collections}}
          <label class="option"><input type="checkbox" name="chosen_collections" value="{{.}}" {{if hasString $.Options.Collections .}}checked{{end}}> {{.}}</label>
          {{end}}
        </div>
        <div class="field">
          <label class="title">高级选项</label>
          {{range .Features}}
          <label class="option"><input type="checkbox" name="additional_features" value="{{.}}" {{if hasFeature $.Options .}}checked{{end}}> {{.Label}}</label>
          {{end}}
        </div>
        <div class="field">
          <label class="title" for="fp_amount_limit">文章获钻量限制</label>
          <input type="number" step="0.1" id="fp_amount_limit" name="fp_amount_limit" value="{{fpLimit .Options.FPAmountLimit}}">
          <div class="help">介于 0.1 到 30.0 之间，0 为关闭</div>
        </div>
      </div>
    </div>
    <button type="submit">提交</button>
  </form>
  {{if .Submitted}}
  <hr>
  {{range .Problems}}<div class="toast error">{{.}}</div>{{end}}
  {{if .FetchError}}<div class="toast error">{{.FetchError}}</div>{{end}}
  {{if .Succeeded}}
  <div class="toast success">数据获取成功！</div>
  {{range .Articles}}
  <details>
    <summary>{{.Title}}</summary>
    <dl>
      <dt>链接</dt><dd><a href="{{.URL}}" target="_blank" rel="noopener">{{.URL}}</a></dd>
      <dt>作者</dt><dd><a href="{{.AuthorURL}}" target="_blank" rel="noopener">{{.AuthorName}}</a></dd>
      <dt>发布时间</dt><dd>{{.ReleaseTime}}</dd>
      <dt>阅读量</dt><dd>{{.ViewsCount}}</dd>
      <dt>点赞数</dt><dd>{{.LikesCount}}</dd>
      <dt>评论数</dt><dd>{{.CommentsCount}}</dd>
      <dt>获钻量</dt><dd>{{.TotalFPAmount}}</dd>
    </dl>
    <p>摘要：</p>
    <div class="abstract">{{.Summary}}</div>
    {{if .URLScheme}}<a class="scheme" href="{{appLink .URLScheme}}">点击跳转到简书 App（手机端）</a>{{end}}
  </details>
  {{else}}
  <div class="empty">没有符合条件的文章。</div>
  {{end}}
  {{end}}
  {{end}}
  {{if .Footer}}<footer>{{.Footer}}</footer>{{end}}
</div>
</body>
</html>`

type limits struct {
	MinLikes, MaxLikes       int
	MinComments, MaxComments int
	MinCount, MaxCount       int
}

var formLimits = limits{
	MinLikes: filter.MinLikesLimit, MaxLikes: filter.MaxLikesLimit,
	MinComments: filter.MinCommentsLimit, MaxComments: filter.MaxCommentsLimit,
	MinCount: filter.MinResultCount, MaxCount: filter.MaxResultCount,
}

type pageData struct {
	Options     filter.Options
	Limits      limits
	Collections []string
	Features    []filter.Feature
	Submitted   bool
	Problems    filter.Problems
	FetchError  string
	Succeeded   bool
	Articles    []ArticleView
	Footer      string
}
