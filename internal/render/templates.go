package render

const tableSource = `<div class="pt-3 pb-3 pl-2 pr-2 mt-5">
  <h2 class="text-center">View Tickets Here</h2>
{% if rows %}  <table class="table table-bordered table-striped table-dark mb-5">
    <thead>
      <tr>
        <th scope="col">S.No.</th>
        <th scope="col">Issue Title</th>
        <th scope="col">Status</th>
      </tr>
    </thead>
    <tbody>
{% for row in rows %}      <tr>
        <th scope="row">{{ row.Number }}</th>
        <td><a class="text-white" href="{{ row.Href }}">{{ row.Title }}</a></td>
        <td>{{ row.Status }}</td>
      </tr>
{% endfor %}    </tbody>
  </table>
{% else %}  <h3 class="text-center pt-5">{{ empty }}</h3>
{% endif %}</div>
`

const pageSource = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ title }} | {{ app }}</title>
</head>
<body>
  <nav>
{% for link in nav %}    <a href="{{ link.Href }}"{% if link.Active %} aria-current="page"{% endif %}>{{ link.Label }}</a>
{% endfor %}  </nav>
  <main>
{{ content|safe }}
  </main>
</body>
</html>
`

const detailSource = `<div class="pt-3 pb-3 pl-2 pr-2 mt-5">
  <h2>{{ ticket.Title }}</h2>
{% if image %}  <img src="{{ image }}" alt="{{ ticket.Title }}">
{% endif %}  <p>{{ ticket.Description }}</p>
  <dl>
    <dt>Status</dt><dd>{{ ticket.Status }}</dd>
    <dt>Priority</dt><dd>{{ ticket.Priority }}</dd>
    <dt>Owner</dt><dd>{{ ticket.Owner.Name }}</dd>
    <dt>Assignee</dt><dd>{{ assignee }}</dd>
    <dt>Created</dt><dd><time datetime="{{ createdISO }}">{{ created }}</time></dd>
  </dl>
  <a href="{{ back }}">Back to tickets</a>
</div>
`

const notFoundSource = `<div class="pt-3 pb-3 pl-2 pr-2 mt-5">
  <h3 class="text-center pt-5">Ticket not found</h3>
  <a href="{{ back }}">Back to tickets</a>
</div>
`
